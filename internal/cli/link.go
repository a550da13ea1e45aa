package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/refrain/internal/input"
	"github.com/ppiankov/refrain/internal/share"
)

var (
	linkBase   string
	linkSample bool
)

// linkCmd groups the shareable link helpers
var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Encode and decode shareable links",
	Long: `A shareable link carries the song text base64-encoded in its "t"
query parameter, so a graph can be rebuilt from the link alone.`,
}

var linkEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Print a shareable link for a text",
	Long: `Encode reads a text from a file ("-" for stdin) or the built-in sample
and prints a link carrying it. The base is share.base_url unless --base is
given.

Example:
  refrain link encode lyrics.txt
  refrain link encode --sample --base https://example.com/refrain`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("base") {
			cfg.Share.BaseURL = linkBase
		}

		src, err := resolveSource(args, "", linkSample)
		if err != nil {
			return err
		}

		u, err := share.URL(cfg.Share.BaseURL, src.Text)
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	},
}

var linkDecodeCmd = &cobra.Command{
	Use:   "decode <link>",
	Short: "Print the text carried by a shareable link",
	Long: `Decode accepts a full link, a query string or a bare encoded value.

Example:
  refrain link decode 'https://example.com/?t=VHdpbmtsZQ=='`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, ok := input.FromLink(args[0], "")
		if !ok {
			return errors.New("link does not carry a decodable text")
		}
		fmt.Println(src.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.AddCommand(linkEncodeCmd)
	linkCmd.AddCommand(linkDecodeCmd)

	linkEncodeCmd.Flags().StringVar(&linkBase, "base", "", "page the link points to (default: share.base_url)")
	linkEncodeCmd.Flags().BoolVar(&linkSample, "sample", false, "encode the built-in sample")
}
