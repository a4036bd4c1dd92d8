package config

import (
	"flag"
	"os"
	"time"

	"github.com/vcabel/safework/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local SQLite database file
//	-l string   UI language ("nl" or "en")
//	-m string   gateway mode ("blob", "webhook" or "s3")
//	-e string   remote endpoint URL
//	-w string   workspace identifier
//	-s string   session token secret
//	-i int      pull interval in seconds
//	-b string   S3 bucket name
//	-g string   S3 region
//	-r string   reports output directory
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-m", "-e", "-w", "-s", "-i", "-b", "-g", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to local database file")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "UI language")
	fs.StringVar(&cfg.GatewayMode, "m", cfg.GatewayMode, "gateway mode (blob, webhook or s3)")
	fs.StringVar(&cfg.EndpointURL, "e", cfg.EndpointURL, "remote endpoint URL")
	fs.StringVar(&cfg.WorkspaceID, "w", cfg.WorkspaceID, "workspace identifier")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session token secret")
	pullInterval := fs.Int("i", int(cfg.PullInterval.Seconds()), "pull interval (in seconds)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket name")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.ReportsDir, "r", cfg.ReportsDir, "reports output directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PullInterval = time.Duration(*pullInterval) * time.Second
}
