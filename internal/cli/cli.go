// Package cli 实现离线摩尔斯码工具 morsectl，与服务端共用同一份编码表。
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"morsechat/internal/morse"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewRootCmd 构造 morsectl 根命令。每次调用返回独立的命令树，便于测试。
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "morsectl",
		Short:         "Encode and decode International Morse code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newTableCmd())
	return root
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [text...]",
		Short: "Encode text into Morse code; reads stdin when no text is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachLine(cmd, args, morse.Encode)
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [pattern...]",
		Short: "Decode Morse code into text; reads stdin when no pattern is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachLine(cmd, args, morse.Decode)
		},
	}
}

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the Morse code table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, e := range morse.Table() {
				if _, err := fmt.Fprintf(out, "%c\t%s\n", e.Char, e.Code); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// eachLine 对参数整体或 stdin 的每一行应用 fn。
func eachLine(cmd *cobra.Command, args []string, fn func(string) string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, fn(strings.Join(args, " ")))
		return err
	}
	return scan(cmd.InOrStdin(), out, fn)
}

func scan(in io.Reader, out io.Writer, fn func(string) string) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if _, err := fmt.Fprintln(out, fn(sc.Text())); err != nil {
			return err
		}
	}
	return errors.Wrap(sc.Err(), "read input")
}
