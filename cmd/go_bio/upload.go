package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_bio/internal/config"
	"github.com/anatolykoptev/go_bio/internal/metrics"
	"github.com/anatolykoptev/go_bio/internal/pool"
	"github.com/anatolykoptev/go_bio/internal/upload"
)

var (
	uploadProject     string
	uploadCredentials string
)

func init() {
	uploadCmd.Flags().StringVar(&uploadProject, "project", "", "Firestore project id")
	uploadCmd.Flags().StringVar(&uploadCredentials, "credentials", "gcloud-sa.json", "service account credentials file")
	_ = uploadCmd.MarkFlagRequired("project")
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Push markdown and layer records to the document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		st, err := openStore()
		if err != nil {
			return err
		}
		workers, err := cfg.Workers(0)
		if err != nil {
			return err
		}

		up, err := upload.New(cmd.Context(), uploadProject, uploadCredentials, st)
		if err != nil {
			return err
		}
		defer up.Close()

		kinds := []struct {
			desc  string
			list  func() ([]string, error)
			write func(context.Context, string) error
		}{
			{"Uploading markdown files", st.MDSlugs, up.UploadMD},
			{"Uploading L1 records", st.L1Slugs, up.UploadL1},
			{"Uploading L2 records", st.L2Slugs, up.UploadL2},
		}

		for _, kind := range kinds {
			slugs, err := kind.list()
			if err != nil {
				return err
			}
			sum, err := pool.Run(cmd.Context(), kind.desc, slugs, workers,
				func(ctx context.Context, slug string) error {
					if err := kind.write(ctx, slug); err != nil {
						if errors.Is(err, upload.ErrQuotaExhausted) {
							return &pool.FatalError{Err: err}
						}
						return err
					}
					return nil
				})
			fmt.Println(sum)
			if err != nil {
				return err
			}
		}
		fmt.Print(metrics.Format())
		return nil
	},
}
