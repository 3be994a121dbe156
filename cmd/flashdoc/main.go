package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"flashdoc/internal/config"
	"flashdoc/internal/docx"
	"flashdoc/internal/drive"
	"flashdoc/internal/layout"
	"flashdoc/internal/pipeline"
	"flashdoc/internal/sentence"
	"flashdoc/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "flashdoc",
		Short: "AI-powered flashcard document generator",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(historyCmd)
}

var (
	topic    string
	wordFile string
	noUpload bool
)

func init() {
	generateCmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic used to name the output documents")
	generateCmd.Flags().StringVarP(&wordFile, "file", "f", "", "Newline-delimited word list file")
	generateCmd.Flags().BoolVar(&noUpload, "no-upload", false, "Render documents locally without uploading to Drive")
}

var generateCmd = &cobra.Command{
	Use:   "generate [words...]",
	Short: "Generate flashcard documents for a list of vocabulary words",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if noUpload {
			cfg.Drive.Enabled = false
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		words, err := collectWords(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if topic == "" {
			topic = promptLine("What topic do you want to practice? ")
			if topic == "" {
				fmt.Fprintln(os.Stderr, "Error: a topic is required to name the output documents.")
				os.Exit(1)
			}
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := context.Background()

		generator, err := newGenerator(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("Failed to create %s generator: %v", cfg.AI.Provider, err)
		}

		p := &pipeline.Pipeline{
			Generator: generator,
			Renderer: &docx.Renderer{
				TemplatePath: cfg.Document.TemplatePath,
				Folder:       cfg.Document.OutputFolder,
				Prefix:       cfg.Document.OutputPrefix,
				Grid:         layout.Grid{Rows: cfg.Document.Rows, Cols: cfg.Document.Cols},
				BaseFont:     cfg.Document.BaseFont,
				TargetFont:   cfg.Document.TargetFont,
				FontSize:     cfg.Document.FontSize,
			},
			Grid:   layout.Grid{Rows: cfg.Document.Rows, Cols: cfg.Document.Cols},
			Prefix: cfg.Document.OutputPrefix,
			Logger: logger,
		}

		if cfg.Drive.Enabled {
			uploader, err := drive.NewUploader(ctx, cfg.Drive.CredentialsPath, cfg.Drive.TokenPath, logger)
			if err != nil {
				log.Fatalf("Failed to create Drive client: %v", err)
			}
			p.Uploader = uploader
		}

		if cfg.History.Path != "" {
			store, err := storage.NewSQLiteStore(cfg.History.Path)
			if err != nil {
				log.Fatalf("Failed to open history database: %v", err)
			}
			defer store.Close()
			p.History = store
		}

		fmt.Printf("📚 Topic: %s, words: %s\n", topic, strings.Join(words, ", "))
		fmt.Println("🚀 Generating example sentences...")

		report, err := p.Run(ctx, topic, words)
		if err != nil {
			log.Fatalf("Run failed: %v", err)
		}

		printReport(report, words)
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize flashdoc to upload documents to your Google Drive",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		err = drive.Authorize(context.Background(), cfg.Drive.CredentialsPath, cfg.Drive.TokenPath,
			func(authURL string) (string, error) {
				fmt.Printf("Open the following link in your browser and authorize access:\n\n%s\n\n", authURL)
				code := promptLine("Paste the authorization code here: ")
				if code == "" {
					return "", fmt.Errorf("no authorization code provided")
				}
				return code, nil
			})
		if err != nil {
			log.Fatalf("Authorization failed: %v", err)
		}

		fmt.Printf("✅ Token saved to %s\n", cfg.Drive.TokenPath)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent flashcard runs",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store, err := storage.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer store.Close()

		runs, err := store.RecentRuns(context.Background(), 20)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		for _, r := range runs {
			fmt.Printf("#%d  %s  %s  (%d records: %s)\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Topic, r.NRecords, strings.Join(r.Words, " "))
			docs, err := store.DocumentsForRun(context.Background(), r.ID)
			if err != nil {
				continue
			}
			for _, d := range docs {
				fmt.Printf("    %-14s %s\n", d.Status, d.Name)
			}
		}
	},
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sentence.Generator, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return sentence.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Prompt, logger)
	default:
		return sentence.NewOpenAI(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Prompt, logger), nil
	}
}

// collectWords takes the word list from args, from the --file flag, or
// interactively, in that order. An input that trims down to nothing is
// a usage error.
func collectWords(args []string) ([]string, error) {
	if len(args) > 0 {
		return trimWords(args)
	}

	if wordFile != "" {
		return readWordFile(wordFile)
	}

	source := promptLine("Please provide words using one of the following options:\n" +
		"1) Enter a filename (e.g., words.txt)\n" +
		"2) Enter words separated by spaces.\n")
	if strings.HasSuffix(source, ".txt") {
		return readWordFile(source)
	}
	return trimWords(strings.Fields(source))
}

func readWordFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("word file '%s' not found", path)
	}
	return trimWords(strings.Split(string(data), "\n"))
}

func trimWords(raw []string) ([]string, error) {
	var words []string
	for _, w := range raw {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no words provided: pass words as arguments, via --file, or interactively")
	}
	return words, nil
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func printReport(report *pipeline.Report, words []string) {
	var counts []string
	for _, w := range words {
		counts = append(counts, fmt.Sprintf("%s: %d", w, report.PerWord[w]))
	}
	fmt.Printf("✅ Loaded examples: %s\n", strings.Join(counts, ", "))

	if report.NRecords == 0 {
		fmt.Println("⚠️  No examples were generated, no documents produced.")
		return
	}

	for _, d := range report.Documents {
		fmt.Printf("💾 Document saved to: %s\n", d.Path)
	}
	for _, f := range report.FailedPages {
		fmt.Printf("❌ Failed to render %s: %s\n", f.Name, f.Reason)
	}
	for _, u := range report.Uploads {
		fmt.Printf("☁️  Uploaded %s (id: %s)\n", u.Name, u.DriveID)
	}
	for _, f := range report.FailedUploads {
		fmt.Printf("❌ Failed to upload %s: %s\n", f.Name, f.Reason)
	}

	fmt.Printf("🎉 Done: %d records across %d document(s).\n", report.NRecords, len(report.Documents))
}
