package main

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/tryi/store"
)

func newRunsCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List the runs in a checkpoint database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = a.cfg.Store.Path
			}
			if path == "" {
				return errors.New("no checkpoint database, see --store")
			}
			sc := store.DefaultConfig()
			sc.Path = path
			sc.Logger = a.logger.With("component", "badger")
			db, err := store.OpenBadger(sc)
			if err != nil {
				return err
			}
			defer db.Close()

			ids, err := db.Runs(cmd.Context())
			if err != nil {
				return err
			}
			p := message.NewPrinter(language.English)
			for _, id := range ids {
				rec, err := db.Latest(cmd.Context(), id)
				if err != nil {
					return err
				}
				state := "running"
				if rec.Final {
					state = "final"
				}
				if _, err := p.Fprintf(cmd.OutOrStdout(), "%s\tgeneration %d\tfitness %.3f%%\t%s\t%s\n",
					id, rec.Generation, (1-rec.Diff)*100, state, rec.SavedAt.Format("2006-01-02 15:04:05")); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "store", "", "checkpoint database directory (default from config)")
	return cmd
}
