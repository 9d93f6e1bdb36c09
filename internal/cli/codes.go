package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codefix/internal/ui/pretty"
	"github.com/yaklabco/codefix/pkg/codefix"
	"github.com/yaklabco/codefix/pkg/config"
)

const formatJSON = "json"

// codeInfo is one supported diagnostic code in JSON output.
type codeInfo struct {
	Code       int            `json:"code"`
	Name       string         `json:"name"`
	Strategies []strategyInfo `json:"strategies"`
}

type strategyInfo struct {
	Name   string   `json:"name"`
	Groups []string `json:"groups,omitempty"`
}

func newCodesCommand(globals *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the diagnostic codes that have fixes",
		Long: `List every diagnostic code with a registered fix strategy, the
strategies offering fixes for it, and the fix groups usable with fix-all.
Strategies disabled in configuration are not listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, globals, &config.Config{})
			if err != nil {
				return err
			}
			infos := describeCodes(s.registry)
			if format == formatJSON {
				return writeCodesJSON(cmd.OutOrStdout(), infos)
			}
			color := pretty.IsColorEnabled(s.cfg.Color, cmd.OutOrStdout())
			return writeCodesText(cmd.OutOrStdout(), pretty.NewStyles(color), infos)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func describeCodes(reg *codefix.Registry) []codeInfo {
	codes := reg.SupportedCodes()
	infos := make([]codeInfo, 0, len(codes))
	for _, code := range codes {
		info := codeInfo{Code: int(code), Name: code.String()}
		for _, s := range reg.StrategiesFor(code) {
			si := strategyInfo{Name: s.Name()}
			if bs, ok := s.(codefix.BatchStrategy); ok {
				for _, g := range bs.GroupIDs() {
					si.Groups = append(si.Groups, string(g))
				}
			}
			info.Strategies = append(info.Strategies, si)
		}
		infos = append(infos, info)
	}
	return infos
}

func writeCodesJSON(w io.Writer, infos []codeInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding codes: %w", err)
	}
	return nil
}

func writeCodesText(w io.Writer, styles *pretty.Styles, infos []codeInfo) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No fix strategies enabled")
		return err
	}

	var b strings.Builder
	for _, info := range infos {
		for i, s := range info.Strategies {
			name := ""
			if i == 0 {
				name = info.Name
			}
			fmt.Fprintf(&b, "%s  %s", styles.Code.Render(fmt.Sprintf("%-7s", name)),
				styles.FixName.Render(s.Name))
			if len(s.Groups) > 0 {
				fmt.Fprintf(&b, "  %s", styles.Group.Render(strings.Join(s.Groups, ", ")))
			}
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
