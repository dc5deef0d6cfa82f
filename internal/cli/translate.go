package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dextermorgenk/go-doc-translator/pkg/translation"
)

func newTranslateCommand() *cobra.Command {
	var (
		outputPath string
		targetLang string
	)

	cmd := &cobra.Command{
		Use:   "translate <input-file>",
		Short: "Translate a text file line by line",
		Long: `Reads a UTF-8 text file, translates it line by line through the
provider chain and writes a bilingual (original + translation) output file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			defer app.close()

			if targetLang != "" {
				if err := app.manager.SetTargetLanguage(targetLang); err != nil {
					return err
				}
			}

			inputPath := args[0]
			if outputPath == "" {
				outputPath = defaultOutputPath(inputPath)
			}

			lines, err := readLines(inputPath)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return fmt.Errorf("input file %s is empty", inputPath)
			}

			// Ctrl+C 时取消翻译，已完成的部分仍然写出
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bar, _ := pterm.DefaultProgressbar.
				WithTotal(len(lines)).
				WithTitle("Translating to " + app.manager.TargetLanguage()).
				Start()

			last := 0
			progress := func(current, total int, stage string) {
				bar.UpdateTitle(stage)
				bar.Add(current - last)
				last = current
			}

			pairs, trErr := app.manager.TranslateLines(ctx, lines, progress)
			_, _ = bar.Stop()

			if len(pairs) > 0 {
				if err := writeBilingual(outputPath, pairs); err != nil {
					return err
				}
				app.logger.Info("翻译结果已写出",
					zap.String("output", outputPath),
					zap.Int("lines", len(pairs)))
				pterm.Success.Printfln("Wrote %d translated lines to %s", len(pairs), outputPath)
			}

			if trErr != nil {
				return fmt.Errorf("translation interrupted: %w", trErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path (default: <input>.translated.txt)")
	cmd.Flags().StringVarP(&targetLang, "target-lang", "t", "", "target language (default: Arabic)")

	return cmd
}

// readLines 按行读取UTF-8文本，去掉Windows换行的\r
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// writeBilingual 写出双语对照文本：原文行后跟译文行
func writeBilingual(path string, pairs []translation.Pair) error {
	var sb strings.Builder
	for _, p := range pairs {
		if strings.TrimSpace(p.Original) == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(p.Original)
		sb.WriteString("\n")
		sb.WriteString(p.Translated)
		sb.WriteString("\n\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func defaultOutputPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, ".txt")
	return base + ".translated.txt"
}
