package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/rmx/internal/demo"
	"github.com/vango-dev/rmx/pkg/render"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		name    string
		pretty  bool
		resolve bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a demo page to HTML",
		Long: `Render a demo page with hydration markers and its rmx-data script.

Frames render their placeholder and are resolved by the client, unless
--resolve-frames inlines their content.

Examples:
  rmx render
  rmx render --demo catalog --pretty
  rmx render --resolve-frames -o inbox.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = a.cfg.Demo
			}
			if cmd.Flags().Changed("pretty") {
				a.cfg.Render.Pretty = pretty
			}
			return a.runRender(name, resolve, output)
		},
	}

	cmd.Flags().StringVarP(&name, "demo", "d", "", "Demo page to render (default from config)")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent markup outside hydration regions")
	cmd.Flags().BoolVar(&resolve, "resolve-frames", false, "Render frame content instead of placeholders")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func (a *app) runRender(name string, resolve bool, output string) (err error) {
	d, err := demo.Lookup(name)
	if err != nil {
		return err
	}

	config := a.rendererConfig()
	if resolve {
		config.ResolveFrame = demo.ServerResolver(a.cfg.Server.FramePrefix)
	}
	renderer := render.NewRenderer(config)

	w := a.out
	if output != "" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return cerr
		}
		defer closeErr(&err, f)
		w = f
	}
	bw := bufio.NewWriter(w)

	if err := renderer.RenderPage(bw, d.Page(a.pageOptions())); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if output != "" {
		data := renderer.Data()
		a.success("Rendered %s to %s", d.Name, output)
		a.info("%d hydration regions, %d frames", len(data.H), len(data.F))
	}
	a.logger.Debug("page rendered", "demo", d.Name, "regions", len(renderer.Data().H))
	return nil
}

func (a *app) rendererConfig() render.RendererConfig {
	return render.RendererConfig{
		Pretty: a.cfg.Render.Pretty,
		Indent: a.cfg.Render.Indent,
		Logger: a.logger,
	}
}

func (a *app) pageOptions() demo.Options {
	return demo.Options{
		FramePrefix:  a.cfg.Server.FramePrefix,
		ClientScript: a.cfg.Server.ClientScript,
	}
}

func closeErr(err *error, f *os.File) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", f.Name(), cerr)
	}
}
