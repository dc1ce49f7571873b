// Package bootstrap builds the shared runtime components (content store,
// vector drivers, embedder, event publisher) from resolved configuration.
// The serve, backfill, and sync commands all go through here so the wiring
// cannot drift between them.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/foliohq/folio/cmd/folio/dbpath"
	"github.com/foliohq/folio/pkg/config"
	"github.com/foliohq/folio/pkg/content"
	"github.com/foliohq/folio/pkg/content/postgres"
	contentsqlite "github.com/foliohq/folio/pkg/content/sqlite"
	"github.com/foliohq/folio/pkg/embeddings"
	embeddingutils "github.com/foliohq/folio/pkg/embeddings/utils"
	"github.com/foliohq/folio/pkg/eventstream"
	eventkafka "github.com/foliohq/folio/pkg/eventstream/kafka"
	"github.com/foliohq/folio/pkg/eventstream/nop"
	"github.com/foliohq/folio/pkg/vector"
	"github.com/foliohq/folio/pkg/vector/chroma"
	"github.com/foliohq/folio/pkg/vector/sqlitevec"
)

// NewStore creates the content store selected by storage.driver. The
// context bounds the initial connectivity check for drivers that dial out.
func NewStore(ctx context.Context, v *viper.Viper, configDir string) (content.Store, error) {
	switch driver := v.GetString("storage.driver"); driver {
	case "sqlite":
		path, err := dbpath.ResolveContentDB(v.GetString("storage.sqlite_path"), configDir)
		if err != nil {
			return nil, err
		}
		return contentsqlite.NewStore(path)

	case "postgres":
		url := v.GetString("storage.postgres_url")
		if url == "" {
			return nil, errors.New("storage.postgres_url is required for the postgres driver")
		}
		return postgres.NewStore(ctx, url)

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

// NewVectorDrivers creates one vector driver per collection using the
// configured provider.
func NewVectorDrivers(v *viper.Viper, configDir string, logger *zap.Logger) (post, page vector.Driver, err error) {
	switch provider := v.GetString("vector_store.provider"); provider {
	case "sqlitevec":
		path, err := dbpath.ResolveVectorDB(v.GetString("vector_store.path"), configDir)
		if err != nil {
			return nil, nil, err
		}

		dims := v.GetUint("embedding.dimensions")
		post, err := sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     path,
			Collection: string(content.CollectionPosts),
			Dimensions: dims,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		page, err := sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     path,
			Collection: string(content.CollectionPages),
			Dimensions: dims,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return post, page, nil

	case "chroma":
		target := v.GetString("vector_store.target")
		post, err := chroma.NewDriver(chroma.Config{
			URL:            target,
			CollectionName: "folio_" + string(content.CollectionPosts),
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		page, err := chroma.NewDriver(chroma.Config{
			URL:            target,
			CollectionName: "folio_" + string(content.CollectionPages),
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return post, page, nil

	default:
		return nil, nil, fmt.Errorf("unsupported vector store provider: %s", provider)
	}
}

// NewEmbedder creates the configured embedding provider. A missing OpenAI
// credential is not an error: it returns (nil, nil) so callers degrade to
// keyword-only behavior.
func NewEmbedder(v *viper.Viper) (embeddings.Embedder, error) {
	opts := &embeddingutils.NewEmbedderOpts{
		ProviderType: v.GetString("embedding.provider"),
		TargetURL:    v.GetString("embedding.target"),
		Model:        v.GetString("embedding.model"),
		APIKey:       os.Getenv("OPENAI_API_KEY"),
	}

	embedder, err := embeddingutils.NewEmbedder(opts)
	if errors.Is(err, embeddings.ErrNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return embedder, nil
}

// NewPublisher creates the configured eventstream publisher.
func NewPublisher(v *viper.Viper) (eventstream.Publisher, error) {
	switch provider := v.GetString("eventstream.provider"); provider {
	case "", "nop":
		return nop.NewPublisher(), nil

	case "kafka":
		ec := config.EventstreamConfig{Brokers: v.GetString("eventstream.brokers")}
		return eventkafka.NewPublisher(eventkafka.Config{
			Brokers: ec.BrokerList(),
			Topic:   v.GetString("eventstream.topic"),
		})

	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", provider)
	}
}
