// Command dfslist walks a tree depth-first, listing one directory at
// a time, and prints every entry below the given roots.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.lepak.sg/frontier/listing"
	"go.lepak.sg/frontier/listing/boltlist"
	"go.lepak.sg/frontier/listing/natslist"
	"go.lepak.sg/frontier/walk"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type globals struct {
	cfg     walk.Config
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{cfg: walk.NewConfig()}

	root := &cobra.Command{
		Use:   "dfslist",
		Short: "Walk a listed tree depth-first",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if g.verbose {
				g.logger, err = zap.NewDevelopment()
			} else {
				g.logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = g.logger.Sync()
		},
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.IntVar(&g.cfg.Limit, "limit", g.cfg.Limit, "stop after this many entries per root (0 walks everything)")
	f.BoolVar(&g.cfg.ListedOrder, "listed-order", g.cfg.ListedOrder, "print each root in listed order, parents first")
	f.IntVar(&g.cfg.Retries, "retries", g.cfg.Retries, "retries per failed listing (negative disables)")
	f.IntVar(&g.cfg.Concurrency, "concurrency", g.cfg.Concurrency, "roots walked at once")
	f.StringVar(&g.cfg.Format, "format", g.cfg.Format, "output format: text or json")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "log every listing")

	root.AddCommand(
		newFSCmd(g),
		newBoltCmd(g),
		newBoltImportCmd(g),
		newNatsCmd(g),
	)
	return root
}

func rootsOr(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func newFSCmd(g *globals) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "fs [root...]",
		Short: "Walk a local directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := listing.FS{FS: os.DirFS(dir)}
			return walk.Run[string](cmd.Context(), g.cfg, g.logger, l, rootsOr(args), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "directory to walk")
	return cmd
}

type boltFlags struct {
	path   string
	bucket string
}

func (b *boltFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.path, "db", "tree.db", "bbolt database file")
	cmd.Flags().StringVar(&b.bucket, "bucket", boltlist.DefaultBucket, "bucket holding the tree")
}

func newBoltCmd(g *globals) *cobra.Command {
	var b boltFlags
	cmd := &cobra.Command{
		Use:   "bolt [root...]",
		Short: "Walk a tree stored in a bbolt database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := boltlist.Open(b.path, b.bucket)
			if err != nil {
				return err
			}
			defer s.Close()

			return walk.Run[string](cmd.Context(), g.cfg, g.logger, s, rootsOr(args), cmd.OutOrStdout())
		},
	}
	b.bind(cmd)
	return cmd
}

func newBoltImportCmd(g *globals) *cobra.Command {
	var b boltFlags
	cmd := &cobra.Command{
		Use:   "bolt-import DIR",
		Short: "Copy a local directory tree into a bbolt database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := boltlist.Open(b.path, b.bucket)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Import(cmd.Context(), listing.FS{FS: os.DirFS(args[0])}, ".")
			if err != nil {
				return err
			}
			g.logger.Info("imported", zap.String("dir", args[0]), zap.Int("directories", n))
			return nil
		},
	}
	b.bind(cmd)
	return cmd
}

func newNatsCmd(g *globals) *cobra.Command {
	var url, bucket string
	cmd := &cobra.Command{
		Use:   "nats [root...]",
		Short: "Walk a tree stored in a NATS key-value bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			nc, err := nats.Connect(url)
			if err != nil {
				return fmt.Errorf("connect %s: %w", url, err)
			}
			defer nc.Close()

			js, err := nc.JetStream()
			if err != nil {
				return err
			}
			s, err := natslist.Bind(js, bucket)
			if err != nil {
				return err
			}

			return walk.Run[string](cmd.Context(), g.cfg, g.logger, s, rootsOr(args), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&url, "url", nats.DefaultURL, "NATS server URL")
	cmd.Flags().StringVar(&bucket, "bucket", "tree", "key-value bucket holding the tree")
	return cmd
}
