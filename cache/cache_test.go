package cache_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/insts"
)

var _ = Describe("Cache", func() {
	var (
		c       *cache.Cache
		decoder *insts.Decoder
	)

	fieldsOf := func(code string) (uint64, insts.Fields) {
		enc, err := insts.ParseEncoding(code)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		fields, err := decoder.Fields(enc)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return enc.Key(), fields
	}

	BeforeEach(func() {
		decoder = insts.NewDecoder()
		c = cache.New(cache.Config{Sets: 4, Ways: 2})
	})

	Describe("Get and Put", func() {
		It("should miss on cold cache", func() {
			key, _ := fieldsOf("032600")

			_, ok := c.Get(key)
			Expect(ok).To(BeFalse())

			stats := c.Stats()
			Expect(stats.Lookups).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(0)))
		})

		It("should hit on stored fields", func() {
			key, fields := fieldsOf("032600")
			c.Put(key, fields)

			got, ok := c.Get(key)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(fields))
			Expect(c.Stats().Hits).To(Equal(uint64(1)))
		})

		It("should keep format 3 and format 4 keys apart", func() {
			key3, fields3 := fieldsOf("032600")
			key4, fields4 := fieldsOf("00032600")
			Expect(key3).NotTo(Equal(key4))

			c.Put(key3, fields3)
			c.Put(key4, fields4)

			got, ok := c.Get(key3)
			Expect(ok).To(BeTrue())
			Expect(got.Encoding.Format).To(Equal(insts.Format3))
			got, ok = c.Get(key4)
			Expect(ok).To(BeTrue())
			Expect(got.Encoding.Format).To(Equal(insts.Format4))
		})

		It("should overwrite an existing entry without evicting", func() {
			key, fields := fieldsOf("032600")
			c.Put(key, fields)
			c.Put(key, fields)

			Expect(c.Stats().Evictions).To(Equal(uint64(0)))
		})
	})

	Describe("Eviction", func() {
		BeforeEach(func() {
			c = cache.New(cache.Config{Sets: 1, Ways: 2})
		})

		It("should evict the least recently used entry", func() {
			keyA, fieldsA := fieldsOf("032600")
			keyB, fieldsB := fieldsOf("3F2FEC")
			keyC, fieldsC := fieldsOf("57C003")

			c.Put(keyA, fieldsA)
			c.Put(keyB, fieldsB)
			_, ok := c.Get(keyA) // A becomes most recently used
			Expect(ok).To(BeTrue())

			c.Put(keyC, fieldsC)

			Expect(c.Stats().Evictions).To(Equal(uint64(1)))
			_, ok = c.Get(keyB)
			Expect(ok).To(BeFalse())
			_, ok = c.Get(keyA)
			Expect(ok).To(BeTrue())
			_, ok = c.Get(keyC)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("Decode", func() {
		It("should match the uncached decoder", func() {
			want, err := decoder.Decode("3F2FEC", 0x3000, 0x6000)
			Expect(err).NotTo(HaveOccurred())

			got, err := c.Decode(decoder, "3F2FEC", 0x3000, 0x6000)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		})

		It("should reuse fields across register values", func() {
			first, err := c.Decode(decoder, "032600", 0x3000, 0x6000)
			Expect(err).NotTo(HaveOccurred())
			second, err := c.Decode(decoder, "032600", 0x4000, 0x6000)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.TA).To(Equal(int64(0x3600)))
			Expect(second.TA).To(Equal(int64(0x4600)))

			stats := c.Stats()
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(1)))
		})

		It("should not cache errors", func() {
			_, err := c.Decode(decoder, "036000", 0, 0)
			Expect(err).To(MatchError(insts.ErrInvalidFlagCombination))
			_, err = c.Decode(decoder, "036000", 0, 0)
			Expect(err).To(MatchError(insts.ErrInvalidFlagCombination))

			Expect(c.Stats().Hits).To(Equal(uint64(0)))
		})

		It("should fail malformed input before lookup", func() {
			_, err := c.Decode(decoder, "ZZZZZZ", 0, 0)
			Expect(err).To(MatchError(insts.ErrInvalidHex))
			Expect(c.Stats().Lookups).To(Equal(uint64(0)))
		})

		It("should be safe for concurrent use", func() {
			codes := []string{"032600", "3F2FEC", "57C003", "4B101036", "010030"}

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					for _, code := range codes {
						_, err := c.Decode(decoder, code, 0x3000, 0x6000)
						Expect(err).NotTo(HaveOccurred())
					}
				}()
			}
			wg.Wait()

			Expect(c.Stats().Lookups).To(Equal(uint64(8 * len(codes))))
		})
	})

	Describe("Reset", func() {
		It("should invalidate entries and clear stats", func() {
			key, fields := fieldsOf("032600")
			c.Put(key, fields)
			c.Reset()

			Expect(c.Stats()).To(Equal(cache.Statistics{}))
			_, ok := c.Get(key)
			Expect(ok).To(BeFalse())
		})
	})

	It("should fall back to the default geometry", func() {
		Expect(cache.New(cache.Config{}).Config()).To(Equal(cache.DefaultConfig()))
	})
})
