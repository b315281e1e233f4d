package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"reggen/internal/synth"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <model.toml> <register> <raw>",
	Short: "Decode a raw register value into its readable fields",
	Long: `Decode applies the generated getters of <register> to <raw> and prints
every readable field. <raw> accepts Go integer syntax (0x.., 0b.., 0o.., decimal).`,
	Args: cobra.ExactArgs(3),
	RunE: runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <model.toml> <register> field=value ...",
	Short: "Build a raw register value from field assignments",
	Long: `Encode applies the generated setters of <register> in argument order,
starting from --base. A value outside the field's range is an error.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().String("base", "0", "raw value to start from")
}

func runDecode(cmd *cobra.Command, args []string) error {
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	unit, err := loadUnit(cmd.ErrOrStderr(), args[0], args[1], opts.maxDiagnostics)
	if err != nil {
		return err
	}
	raw, err := parseRaw(unit, args[2])
	if err != nil {
		return err
	}
	return writeDecoded(cmd.OutOrStdout(), unit, raw)
}

// writeDecoded prints a header line and one borderless table row per
// readable field. Signed fields print their sign-extended value.
func writeDecoded(out io.Writer, unit synth.Unit, raw uint64) error {
	cell := lipgloss.NewStyle().PaddingLeft(2)
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("field", "bits", "value", "hex")
	for _, g := range unit.Getters {
		bits := fmt.Sprintf("[%d:%d]", int(g.Shift)+int(g.Span), g.Shift)
		v := g.Get(raw)
		value := strconv.FormatUint(v, 10)
		if g.Signed {
			value = strconv.FormatInt(g.GetSigned(raw), 10)
		}
		t.Row(g.Field, bits, value, fmt.Sprintf("0x%X", v))
	}
	_, err := fmt.Fprintf(out, "%s.%s %s\n%s\n", unit.Family, unit.Name, formatRaw(unit.Storage, raw), t.String())
	return err
}

func runEncode(cmd *cobra.Command, args []string) error {
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	unit, err := loadUnit(cmd.ErrOrStderr(), args[0], args[1], opts.maxDiagnostics)
	if err != nil {
		return err
	}
	baseStr, err := cmd.Flags().GetString("base")
	if err != nil {
		return fmt.Errorf("failed to get base flag: %w", err)
	}
	raw, err := parseRaw(unit, baseStr)
	if err != nil {
		return err
	}
	raw, err = encodeAssignments(unit, raw, args[2:])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatRaw(unit.Storage, raw))
	return nil
}

// encodeAssignments applies field=value pairs with the unit's setters.
func encodeAssignments(unit synth.Unit, raw uint64, assignments []string) (uint64, error) {
	for _, arg := range assignments {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return raw, fmt.Errorf("invalid assignment %q (expected field=value)", arg)
		}
		name = strings.TrimSpace(name)
		setter, found := findSetter(unit, name)
		if !found {
			return raw, fmt.Errorf("register %s has no writable field %q", unit.Name, name)
		}
		value = strings.TrimSpace(value)
		var accepted bool
		if setter.Signed {
			v, err := strconv.ParseInt(value, 0, 64)
			if err != nil {
				return raw, fmt.Errorf("field %s: %w", name, err)
			}
			raw, accepted = setter.SetSigned(raw, v)
		} else {
			v, err := strconv.ParseUint(value, 0, 64)
			if err != nil {
				return raw, fmt.Errorf("field %s: %w", name, err)
			}
			raw, accepted = setter.Set(raw, v)
		}
		if !accepted {
			return raw, fmt.Errorf("field %s: value %s out of range %s", name, value, formatRange(setter))
		}
	}
	return raw, nil
}

func findSetter(unit synth.Unit, name string) (synth.Accessor, bool) {
	for _, s := range unit.Setters {
		if s.Field == name {
			return s, true
		}
	}
	return synth.Accessor{}, false
}

func parseRaw(unit synth.Unit, s string) (uint64, error) {
	raw, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid raw value %q: %w", s, err)
	}
	if unit.Storage.Truncate(raw) != raw {
		return 0, fmt.Errorf("raw value %s does not fit %d-bit register %s", s, unit.Storage.Bits(), unit.Name)
	}
	return raw, nil
}
