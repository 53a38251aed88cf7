package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/spf13/cobra"

	"docman/src/log"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <document-id>",
	Short: "Reset a document to PENDING and re-enqueue it",
	Long: `The reprocess command is the explicit backward transition: the document
returns to PENDING, its id is published to the work queue again, and the next
processing run replaces its chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runReprocess,
}

func init() {
	rootCmd.AddCommand(reprocessCmd)
}

func runReprocess(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id: %s", args[0])
	}

	ctx := context.Background()

	db, err := openDatabase()
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	amqpPublisher, err := newAMQPPublisher(watermill.NewStdLogger(false, false))
	if err != nil {
		return err
	}
	defer amqpPublisher.Close()

	svcs, err := buildServices(ctx, db, amqpPublisher)
	if err != nil {
		return err
	}

	if err := svcs.ingest.Reprocess(ctx, id); err != nil {
		return err
	}

	log.Info("Document queued for reprocessing", "document_id", id)
	return nil
}
