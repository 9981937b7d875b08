package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fghdfjhgj/firmget/download"
	"github.com/fghdfjhgj/firmget/utils"
)

var (
	output           string
	connections      int
	forceConnections bool
	bufferSize       int
	bufferCount      int
	timeout          time.Duration
	kaTimeout        time.Duration
	userAgent        string
	proxyURL         string
	urlListFile      string
	cleanOutput      bool
	debug            bool
)

var FirmgetVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "firmget [url]",
	Short:   "Firmget is a fast range-aware file downloader",
	Version: FirmgetVersion,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		if cleanOutput {
			if err := utils.CleanPart(output, download.TempExtension); err != nil {
				utils.PrintError("Error cleaning up temporary file")
				os.Exit(1)
			}
			utils.PrintSuccess("Temporary file cleaned up")
			return
		}
		if len(args) == 0 && urlListFile == "" {
			utils.PrintError("No URL or URL list provided")
			os.Exit(1)
		}
		if urlListFile != "" && len(args) > 0 {
			utils.PrintError("Cannot specify url argument and --urllist together, choose one")
			os.Exit(1)
		}

		var entries []utils.DownloadEntry
		if len(args) > 0 {
			entries = []utils.DownloadEntry{{URL: args[0], OutputPath: output}}
		} else {
			var err error
			entries, err = utils.ReadDownloadList(urlListFile)
			if err != nil {
				utils.PrintError("Failed to read URL list file")
				os.Exit(1)
			}
		}

		client := utils.NewHTTPClient(timeout, kaTimeout, proxyURL)
		failed := false
		for _, entry := range entries {
			threads := connections
			if entry.Connections > 0 {
				threads = entry.Connections
			}
			outputPath := entry.OutputPath
			if outputPath == "" {
				outputPath = "."
			}
			if info, err := os.Stat(outputPath); err == nil && !info.IsDir() {
				outputPath = utils.RenewOutputPath(outputPath)
			}
			result, err := download.Do(client, download.Request{
				URL:          entry.URL,
				Destination:  outputPath,
				Threads:      threads,
				ForceThreads: forceConnections,
				PoolCapacity: bufferCount,
				BufferSize:   bufferSize,
				UserAgent:    userAgent,
			})
			if err != nil {
				utils.PrintError(fmt.Sprintf("Download failed: %v", err))
				failed = true
				continue
			}
			size := "unknown size"
			if info, err := os.Stat(result.SavePath); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			utils.PrintSuccess(fmt.Sprintf("Downloaded %s (%s)", result.FileName, size))
			utils.PrintDetail(fmt.Sprintf("  saved to %s using %d connection(s)", result.SavePath, result.ThreadsUsed))
		}
		if failed {
			utils.PrintError("Encountered failed operation(s)")
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output file path or directory (file name inferred from URL for directories)")
	rootCmd.Flags().StringVarP(&urlListFile, "urllist", "l", "", "Path to YAML file containing URLs and output paths")
	rootCmd.Flags().IntVarP(&connections, "connections", "c", 8, "Number of connections per download")
	rootCmd.Flags().BoolVar(&forceConnections, "force-connections", false, "Use the requested connection count without auto-tuning")
	rootCmd.Flags().IntVar(&bufferSize, "buffer-size", download.DefaultBufferSize, "Streaming buffer size in bytes")
	rootCmd.Flags().IntVar(&bufferCount, "buffer-count", download.DefaultPoolCapacity, "Idle buffers kept in the pool")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	rootCmd.Flags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	rootCmd.Flags().StringVarP(&userAgent, "user-agent", "a", utils.DefaultUserAgent, "User agent")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")

	// flags without shorthand
	rootCmd.Flags().BoolVar(&cleanOutput, "clean", false, "Clean up the temporary file for provided output path")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
