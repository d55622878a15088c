package main

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/spf13/cobra"

	"planviewer/internal/textures/repository"
	texservice "planviewer/internal/textures/service"
	"planviewer/internal/viewer/engine"
	"planviewer/internal/viewer/render"
)

type renderOptions struct {
	format     string
	out        string
	indent     bool
	texturesDB string
	staticURL  string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [plan.json]",
		Short: "Render a plan document as SVG or scene-graph JSON",
		Long:  "Build the 3D scene for a plan and draw one frame: a top-down SVG or the retained scene graph with its camera.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg or json")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")
	cmd.Flags().StringVar(&opts.texturesDB, "textures-db", "", "texture catalog database used to resolve style textures")
	cmd.Flags().StringVar(&opts.staticURL, "static-url", "/static", "base URL of texture files")
	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts renderOptions) error {
	backend, err := render.ForFormat(opts.format)
	if err != nil {
		return err
	}
	if j, ok := backend.(render.JSON); ok {
		j.Indent = opts.indent
		backend = j
	}

	plan, err := readPlan(cmd, args)
	if err != nil {
		return err
	}

	var engineOpts []engine.Option
	if opts.texturesDB != "" {
		catalog, closeDB, err := loadCatalog(cmd.Context(), opts.texturesDB, opts.staticURL)
		if err != nil {
			return err
		}
		defer closeDB()
		engineOpts = append(engineOpts, engine.WithTextures(catalog))
	}

	frame := engine.New(plan, nil, engineOpts...).Render()
	out, err := backend.Render(frame)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	slog.Debug("[RENDER] frame built", "format", opts.format, "bytes", len(out))
	return writeOutput(cmd, opts.out, out)
}

func loadCatalog(ctx context.Context, path, staticURL string) (*texservice.Catalog, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := repository.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open textures db: %w", err)
	}
	repo := repository.New(db)
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init textures db: %w", err)
	}

	catalog := texservice.NewCatalog(staticURL)
	if err := catalog.Load(ctx, repo); err != nil {
		db.Close()
		return nil, nil, err
	}
	return catalog, func() { db.Close() }, nil
}
