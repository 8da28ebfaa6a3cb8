package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"workshopupload/internal/bbcode"
)

func newConvertCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Render markdown as Steam workshop BBCode",
		Long:  "Reads markdown from a file, or stdin when the argument is omitted or '-', and prints the BBCode used for descriptions and change notes.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readConvertInput(cmd, args)
			if err != nil {
				return err
			}

			out := bbcode.New().Convert(string(input))
			if outputPath == "" {
				cmd.Println(out)
				return nil
			}
			if err := os.WriteFile(outputPath, []byte(out+"\n"), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}
			cmd.Printf("Converted → %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write BBCode to a file instead of stdout")
	return cmd
}

func readConvertInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
