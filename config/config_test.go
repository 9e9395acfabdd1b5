package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/config"
	"github.com/sarchlab/sicxe/insts"
)

var _ = Describe("Config", func() {
	Describe("Defaults", func() {
		It("should use the classroom register values", func() {
			c := config.DefaultConfig()

			Expect(c.PC).To(Equal(uint32(0x3000)))
			Expect(c.Base).To(Equal(uint32(0x6000)))
			Expect(c.Sample).To(Equal("032600"))
			Expect(c.SchemaVersion).To(Equal(config.SchemaVersion))
		})

		It("should be valid", func() {
			Expect(config.DefaultConfig().Validate()).To(Succeed())
		})

		It("should match the default cache geometry", func() {
			Expect(config.DefaultConfig().CacheConfig()).To(Equal(cache.DefaultConfig()))
		})
	})

	Describe("Validation", func() {
		It("should reject a newer major schema", func() {
			c := config.DefaultConfig()
			c.SchemaVersion = "2.0.0"
			Expect(c.Validate()).To(MatchError(ContainSubstring("unsupported schema_version")))
		})

		It("should accept a newer minor schema", func() {
			c := config.DefaultConfig()
			c.SchemaVersion = "1.3.0"
			Expect(c.Validate()).To(Succeed())
		})

		It("should reject a malformed schema version", func() {
			c := config.DefaultConfig()
			c.SchemaVersion = "one"
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject a sample that does not decode", func() {
			c := config.DefaultConfig()
			c.Sample = "0326"
			Expect(c.Validate()).To(MatchError(insts.ErrUnsupportedFormat))
		})

		It("should reject zero workers", func() {
			c := config.DefaultConfig()
			c.Workers = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject an empty cache", func() {
			c := config.DefaultConfig()
			c.CacheWays = 0
			Expect(c.Validate()).To(HaveOccurred())
		})
	})

	DescribeTable("ParseRegister",
		func(in string, want uint32) {
			v, err := config.ParseRegister(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(want))
		},
		Entry("padded", "003000", uint32(0x3000)),
		Entry("prefixed", "0x6000", uint32(0x6000)),
		Entry("uppercase prefix", "0X1A", uint32(0x1A)),
		Entry("spaces", " ff ", uint32(0xFF)),
	)

	It("should reject non-hex register values", func() {
		_, err := config.ParseRegister(" 0xG ")
		Expect(err).To(MatchError(ContainSubstring(`" 0xG "`)))
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := config.DefaultConfig()
			clone := original.Clone()

			clone.PC = 0x1000

			Expect(original.PC).To(Equal(uint32(0x3000)))
			Expect(clone.PC).To(Equal(uint32(0x1000)))
		})
	})

	Describe("File I/O", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "sicxe-config-*")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(tempDir)
		})

		It("should round-trip through a file", func() {
			path := filepath.Join(tempDir, "sicxe.json")
			original := config.DefaultConfig()
			original.PC = 0x1000
			original.Workers = 2

			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"base": 4096}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Base).To(Equal(uint32(4096)))
			Expect(loaded.PC).To(Equal(uint32(0x3000)))
		})

		It("should return error for non-existent file", func() {
			_, err := config.LoadConfig("/nonexistent/path/sicxe.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			Expect(os.WriteFile(path, []byte("not valid json"), 0644)).To(Succeed())

			_, err := config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
