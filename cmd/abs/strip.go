package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	abserrors "github.com/vango-dev/abs/internal/errors"
	"github.com/vango-dev/abs/internal/inspect"
)

func stripCmd(c *cli) *cobra.Command {
	var (
		tag    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "strip <ref>",
		Short: "Remove every instance of a component from a document",
		Long: `Initialize the components of a document, destroy every instance of
--tag (nested components first) and write the resulting HTML.

Examples:
  abs strip index.html --tag Banner
  abs strip index.html --tag Banner -o clean.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tag == "" {
				return abserrors.New("A030").
					WithSubject("strip").
					WithSuggestion("pass --tag with the component to remove")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			doc, err := newLoader(cfg).Load(ctx, args[0])
			if err != nil {
				return err
			}

			// Strip needs every instance bound, so register whatever the page uses.
			session := inspect.NewSession(args[0], doc, nil, cfg.ManagerOptions(cfg.NewLogger(c.stderr))...)
			res := session.Scan(ctx)
			if !res.OK() {
				for _, msg := range res.Errors {
					c.errorMsg("%s", msg)
				}
				return errReported
			}

			removed := session.Strip(ctx, tag)

			var buf bytes.Buffer
			if err := doc.Render(&buf); err != nil {
				return err
			}
			if output == "" {
				_, err = c.stdout.Write(buf.Bytes())
			} else {
				err = os.WriteFile(output, buf.Bytes(), 0644)
			}
			if err != nil {
				return err
			}

			c.success("Removed %d components (%s)", removed, tag)
			if output != "" {
				c.info("Wrote %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Component tag to remove")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}
