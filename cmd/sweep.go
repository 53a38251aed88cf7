package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docman/src/log"
	"docman/src/storage/postgres/documentctrl"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Process all pending documents in batches",
	Long: `The sweep command walks every PENDING document and runs the ingestion
pipeline for each one. It is the remediation path for documents whose queue
message was lost, and can be stopped between items with Ctrl-C.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	pending, err := svcs.docs.CountByStatus(ctx, documentctrl.StatusPending)
	if err != nil {
		return err
	}
	if pending == 0 {
		log.Info("No pending documents")
		return nil
	}

	bar := progressbar.Default(pending, "processing")
	processed, err := svcs.ingest.SweepPending(ctx, func(documentctrl.Document) {
		bar.Add(1)
	})
	if err != nil {
		log.Error(err, "Sweep stopped early", "processed", processed)
		return nil
	}

	log.Info("Sweep finished", "processed", processed)
	return nil
}
