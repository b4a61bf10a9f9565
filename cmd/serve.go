package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/httpapi"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/persistence"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one run over a JSON HTTP API",
	Long: `Starts a run and exposes it for external front ends:
	GET  /state     current snapshot
	POST /command   {"line": "bet 10"}
	POST /tick      {"dt": 0.5}
	GET  /intents   presentation requests since the last call
Time advances by the wall clock between requests.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		content, err := loadContent(cfg, logger)
		if err != nil {
			return err
		}
		var store session.Store
		if cfg.TraceFile != "" {
			if store, err = persistence.NewStore(cfg.TraceFile); err != nil {
				return err
			}
		}
		sess, err := session.New(cfg, content, store, logger)
		if err != nil {
			return err
		}
		defer sess.Close()

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           httpapi.New(sess, httpapi.WithLogger(logger)).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()

		fmt.Printf("Serving run %s on %s\n", sess.RunID(), cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "address to listen on (default :8052)")
	cobra.CheckErr(viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen")))
}
