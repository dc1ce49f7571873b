package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/foliohq/folio/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("NewDefaultConfig", func() {
		It("populates every section", func() {
			cfg := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(config.CurrentV))
			Expect(cfg.Storage.Driver).To(Equal("sqlite"))
			Expect(cfg.Content.Dir).To(Equal("content"))
			Expect(cfg.API.Listen).To(Equal(":8081"))
			Expect(cfg.Client.APITarget).To(Equal("http://localhost:8081"))
			Expect(cfg.VectorStore.Provider).To(Equal("sqlitevec"))
			Expect(cfg.Embedding.Provider).To(Equal("openai"))
			Expect(cfg.Embedding.Model).To(Equal("text-embedding-ada-002"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
			Expect(cfg.Eventstream.Provider).To(Equal("nop"))
		})
	})

	Describe("ParseConfigTOML", func() {
		It("parses a full config", func() {
			data := []byte(`
version = 0

[storage]
driver = "sqlite"
sqlite_path = "/tmp/folio.db"

[content]
dir = "site/content"

[api]
listen = ":9000"

[vector_store]
provider = "chroma"
target = "http://localhost:8000"

[embedding]
provider = "openai"
model = "text-embedding-ada-002"
dimensions = 1536
`)
			cfg, err := config.ParseConfigTOML(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.SQLitePath).To(Equal("/tmp/folio.db"))
			Expect(cfg.Content.Dir).To(Equal("site/content"))
			Expect(cfg.API.Listen).To(Equal(":9000"))
			Expect(cfg.VectorStore.Provider).To(Equal("chroma"))
			Expect(cfg.VectorStore.Target).To(Equal("http://localhost:8000"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(1536)))
		})

		It("rejects unsupported versions", func() {
			_, err := config.ParseConfigTOML([]byte("version = 99\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version"))
		})

		It("rejects malformed TOML", func() {
			_, err := config.ParseConfigTOML([]byte("[storage\n"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Configer", func() {
		It("loads defaults when no config file exists", func() {
			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":8081"))
		})

		It("round-trips save and load", func() {
			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.API.Listen = ":9999"
			cfg.Storage.SQLitePath = "/tmp/custom.db"
			Expect(cfger.SaveConfig(cfg)).To(Succeed())

			loaded, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.API.Listen).To(Equal(":9999"))
			Expect(loaded.Storage.SQLitePath).To(Equal("/tmp/custom.db"))
		})

		It("fills zero-value fields with defaults on load", func() {
			path := filepath.Join(tmpDir, "config.toml")
			Expect(os.WriteFile(path, []byte("[api]\nlisten = \":7000\"\n"), 0o600)).To(Succeed())

			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.API.Listen).To(Equal(":7000"))
			Expect(cfg.Embedding.Model).To(Equal("text-embedding-ada-002"))
			Expect(cfg.VectorStore.Provider).To(Equal("sqlitevec"))
		})

		It("rejects saving a nil config", func() {
			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfger.SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var cfger *config.Configer

		BeforeEach(func() {
			var err error
			cfger, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets a string key", func() {
			Expect(cfger.SetConfigValue("api.listen", ":4242")).To(Succeed())

			got, err := cfger.GetConfigValue("api.listen")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(":4242"))
		})

		It("sets and gets embedding.dimensions", func() {
			Expect(cfger.SetConfigValue("embedding.dimensions", "768")).To(Succeed())

			got, err := cfger.GetConfigValue("embedding.dimensions")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("768"))
		})

		It("rejects a non-numeric embedding.dimensions", func() {
			err := cfger.SetConfigValue("embedding.dimensions", "lots")
			Expect(err).To(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			Expect(cfger.SetConfigValue("nope.nothing", "x")).To(HaveOccurred())

			_, err := cfger.GetConfigValue("nope.nothing")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidConfigKeys", func() {
		It("includes every supported key exactly once", func() {
			keys := ValidKeysSet()
			Expect(keys).To(HaveKey("storage.sqlite_path"))
			Expect(keys).To(HaveKey("api.listen"))
			Expect(keys).To(HaveKey("vector_store.provider"))
			Expect(keys).To(HaveKey("embedding.model"))
			Expect(keys).To(HaveKey("eventstream.brokers"))
		})

		It("reports validity via IsValidConfigKey", func() {
			Expect(config.IsValidConfigKey("api.listen")).To(BeTrue())
			Expect(config.IsValidConfigKey("api.nope")).To(BeFalse())
		})
	})

	Describe("EventstreamConfig", func() {
		It("splits the comma-separated broker list", func() {
			e := config.EventstreamConfig{Brokers: "localhost:9092, broker-2:9092"}
			Expect(e.BrokerList()).To(Equal([]string{"localhost:9092", "broker-2:9092"}))
		})

		It("returns nil for an empty broker string", func() {
			e := config.EventstreamConfig{}
			Expect(e.BrokerList()).To(BeNil())
		})
	})

	Describe("InitViper", func() {
		It("applies defaults with no config file", func() {
			v, err := config.InitViper(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString("api.listen")).To(Equal(":8081"))
			Expect(v.GetUint("embedding.dimensions")).To(Equal(uint(1536)))
		})

		It("reads values from the config file", func() {
			path := filepath.Join(tmpDir, "config.toml")
			Expect(os.WriteFile(path, []byte("[api]\nlisten = \":7000\"\n"), 0o600)).To(Succeed())

			v, err := config.InitViper(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString("api.listen")).To(Equal(":7000"))
		})

		It("lets environment variables override the file", func() {
			os.Setenv("FOLIO_API_LISTEN", ":6000")
			defer os.Unsetenv("FOLIO_API_LISTEN")

			v, err := config.InitViper(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString("api.listen")).To(Equal(":6000"))
		})
	})
})

// ValidKeysSet converts ValidConfigKeys into a set for membership checks.
func ValidKeysSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, k := range config.ValidConfigKeys() {
		set[k] = struct{}{}
	}
	return set
}
