// Command domdump loads an HTML document, resolves its @font-face rules,
// optionally runs a script against it and prints the render tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/vibedom/config"
	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/fonts"
	"github.com/chrisuehlinger/vibedom/html"
	"github.com/chrisuehlinger/vibedom/js"
	"github.com/chrisuehlinger/vibedom/network"
	"github.com/chrisuehlinger/vibedom/render"
)

func main() {
	configPath := flag.String("config", "vibedom.yaml", "Path to the configuration file")
	scriptPath := flag.String("script", "", "Script to run with document bound")
	symmetric := flag.Bool("symmetric-text-events", false, "Report text insertions for whole-buffer replacements")
	limit := flag.Int("limit", 0, "Text node length limit in UTF-16 code units (0 uses the configured value)")
	timeout := flag.Duration("timeout", 30*time.Second, "Time allowed for pending loads")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file-or-url>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *symmetric {
		cfg.Text.SymmetricEvents = true
	}
	if *limit > 0 {
		cfg.Parser.TextLengthLimit = *limit
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, logger, flag.Arg(0), *scriptPath); err != nil {
		logger.Error("domdump failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, target, scriptPath string) error {
	target, err := documentURL(target)
	if err != nil {
		return err
	}

	client, err := network.NewClient(cfg.ClientOptions()...)
	if err != nil {
		return err
	}
	queue := network.NewTaskQueue()
	loader := network.NewLoader(client, append(cfg.LoaderOptions(logger), network.WithTaskQueue(queue))...)
	loader.SetBaseURL(target)

	res := loader.LoadDocument(ctx, target)
	doc, err := html.ParseResource(res, cfg.ParserOptions()...)
	if err != nil {
		return fmt.Errorf("load %s: %w", target, err)
	}
	tree := render.Attach(doc)

	selector, err := loadFonts(ctx, cfg, logger, loader, doc)
	if err != nil {
		return err
	}

	if scriptPath != "" {
		if err := runScript(doc, logger, scriptPath); err != nil {
			return err
		}
	}

	if err := queue.Drain(ctx); err != nil {
		logger.Warn("pending loads abandoned", zap.Int("pending", queue.Pending()), zap.Error(err))
	}

	fmt.Print(render.Dump(doc))
	if n := tree.Resyncs(); n > 0 {
		logger.Warn("renderers resynced", zap.Int("count", n))
	}
	printFonts(selector)
	return nil
}

// documentURL turns a file path into a file:// URL.
func documentURL(target string) (string, error) {
	if network.IsAbsoluteURL(target) {
		return target, nil
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func loadFonts(ctx context.Context, cfg *config.Config, logger *zap.Logger, loader *network.Loader, doc *dom.Document) (*fonts.Selector, error) {
	registry := fonts.NewRegistry()
	if cfg.Fonts.GoFonts {
		if err := registry.RegisterGoFonts(); err != nil {
			return nil, err
		}
	}
	for _, dir := range cfg.Fonts.Dirs {
		n, err := registry.LoadDir(dir)
		if err != nil {
			logger.Warn("font directory", zap.String("dir", dir), zap.Error(err))
		}
		logger.Debug("registered fonts", zap.String("dir", dir), zap.Int("count", n))
	}

	selector := fonts.NewSelector()
	for _, sheet := range network.NewDocumentLoader(loader).Stylesheets(ctx, doc) {
		if sheet.Error != nil {
			continue
		}
		faces, err := fonts.ParseFontFaces(sheet.Text, loader, registry, fonts.WithLogger(logger))
		if err != nil {
			logger.Warn("stylesheet parse failed", zap.String("url", sheet.URL), zap.Error(err))
			continue
		}
		for _, face := range faces {
			selector.Add(face)
			face.SelectBestSource(fonts.Description{Family: face.Family, Weight: face.Weight, Italic: face.Italic})
		}
	}
	return selector, nil
}

func runScript(doc *dom.Document, logger *zap.Logger, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	c := js.NewContext(js.WithLogger(logger))
	defer c.Dispose()
	if err := c.Set("document", doc); err != nil {
		return err
	}
	if _, err := c.Run(filepath.Base(path), string(src)); err != nil {
		logger.Warn("script failed", zap.String("script", path), zap.Error(err))
	}
	return nil
}

func printFonts(selector *fonts.Selector) {
	families := selector.Families()
	if len(families) == 0 {
		return
	}
	fmt.Println("\nFonts:")
	for _, family := range families {
		for _, face := range selector.Faces(family) {
			active := "-"
			if src := face.ActiveSource(); src != nil {
				active = src.String()
			}
			fmt.Printf("  %s (weight %d, italic %t): %s via %s\n", face.Family, face.Weight, face.Italic, face.State(), active)
		}
	}
}
