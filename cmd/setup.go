package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"docman/src/core/extract"
	"docman/src/core/ingest"
	"docman/src/core/qa"
	"docman/src/infrastructure/search"
	"docman/src/infrastructure/task"
	"docman/src/storage/blob"
	"docman/src/storage/elastic"
	"docman/src/storage/postgres/chunkctrl"
	"docman/src/storage/postgres/documentctrl"
)

// services bundles everything the subcommands wire together.
type services struct {
	ingest *ingest.Service
	qa     *qa.Service
	docs   *documentctrl.DocumentService
}

func openDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	return db, nil
}

func newBlobStore(ctx context.Context) (blob.Store, error) {
	switch backend := viper.GetString("storage.backend"); backend {
	case "minio":
		return blob.NewMinioStore(
			ctx,
			viper.GetString("minio.endpoint"),
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			viper.GetString("minio.bucket"),
			viper.GetBool("minio.use_ssl"),
		)
	case "local":
		return blob.NewLocalStore(viper.GetString("storage.local_dir"))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

func newExtractor() (extract.TextExtractor, error) {
	timeout := viper.GetDuration("extract.timeout")

	switch backend := viper.GetString("extract.backend"); backend {
	case "docconv":
		return extract.NewDocconvExtractor(timeout), nil
	case "unstructured":
		return extract.NewUnstructuredExtractor(viper.GetString("extract.unstructured_url"), timeout), nil
	default:
		return nil, fmt.Errorf("unknown extract backend: %s", backend)
	}
}

func newAMQPPublisher(logger watermill.LoggerAdapter) (message.Publisher, error) {
	return amqp.NewPublisher(
		amqp.NewDurableQueueConfig(viper.GetString("amqp.url")),
		logger,
	)
}

// buildServices assembles the ingestion coordinator and the retrieval engine
// on top of the configured backends.
func buildServices(ctx context.Context, db *gorm.DB, publisher message.Publisher) (*services, error) {
	docService, err := documentctrl.NewDocumentService(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document service: %v", err)
	}

	chunkService, err := chunkctrl.NewChunkService(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chunk service: %v", err)
	}

	blobStore, err := newBlobStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %v", err)
	}

	extractor, err := newExtractor()
	if err != nil {
		return nil, err
	}

	var indexer ingest.Indexer
	var chunkSearcher qa.ChunkSearcher = search.NewPostgresChunkSearcher(chunkService)

	if viper.GetString("search.backend") == "elasticsearch" {
		sdk, err := elastic.NewSDK(
			strings.Split(viper.GetString("elasticsearch.addresses"), ","),
			viper.GetString("elasticsearch.index"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize elasticsearch: %v", err)
		}
		indexer = search.NewElasticIndexer(sdk)
		chunkSearcher = search.NewElasticChunkSearcher(sdk, search.NewPostgresChunkSearcher(chunkService))
	}

	ingestService := ingest.NewService(
		docService,
		chunkService,
		blobStore,
		extractor,
		task.NewPublisher(publisher),
		indexer,
		viper.GetInt("ingest.chunk_size"),
	)

	qaService := qa.NewService(
		chunkSearcher,
		search.NewPostgresDocumentSearcher(docService),
		search.NewTitleResolver(docService),
	)

	return &services{
		ingest: ingestService,
		qa:     qaService,
		docs:   docService,
	}, nil
}
