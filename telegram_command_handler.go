// telegram_command_handler.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/survey_analyzer/domain/models"
)

func handleCommand(api *tgbotapi.BotAPI, update tgbotapi.Update) {
	fullCommand := update.Message.Command()

	detailsPrefix := "details_"
	mapPrefix := "map_"
	gemsPrefix := "gems_"
	generatePrefix := "generate_"

	switch {
	case strings.HasPrefix(fullCommand, detailsPrefix):
		dimension := strings.TrimPrefix(fullCommand, detailsPrefix)
		if dimension == "" {
			api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Give a dimension name after details_"))
			return
		}
		handleDimensionDetails(api, update, dimension)

	case strings.HasPrefix(fullCommand, mapPrefix):
		spec := strings.TrimPrefix(fullCommand, mapPrefix)
		handleQuadrantMap(api, update, spec)

	case strings.HasPrefix(fullCommand, gemsPrefix):
		dimension := strings.TrimPrefix(fullCommand, gemsPrefix)
		if dimension == "" {
			api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Give a dimension name after gems_"))
			return
		}
		handleHiddenGems(api, update, dimension)

	case strings.HasPrefix(fullCommand, generatePrefix):
		countText := strings.TrimPrefix(fullCommand, generatePrefix)
		handleGenerateCommand(api, update, countText)

	case fullCommand == "correlate":
		handleCorrelations(api, update)

	case fullCommand == "pairs":
		handlePairs(api, update)

	case fullCommand == "start":
		handleText(api, update)

	default:
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Unknown command. Use /details_<dimension>, /correlate, /pairs, /map_<dimA>__<dimB>, /gems_<dimension> or /generate_<count>"))
	}
}

func requireResult(api *tgbotapi.BotAPI, update tgbotapi.Update) (*AnalysisResult, bool) {
	result, ok := loadResult(update.Message.Chat.ID)
	if !ok {
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Upload a survey file first"))
	}
	return result, ok
}

func handleDimensionDetails(api *tgbotapi.BotAPI, update tgbotapi.Update, dimension string) {
	result, ok := requireResult(api, update)
	if !ok {
		return
	}
	stats := DimensionStats(result.Survey.Ratings, dimension)
	if stats == nil {
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			fmt.Sprintf("No ratings found for dimension %s. Known dimensions: %s",
				dimension, strings.Join(RowDimensions(result.Rows), ", "))))
		return
	}
	api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, FormatStats(stats)))
}

func handleCorrelations(api *tgbotapi.BotAPI, update tgbotapi.Update) {
	result, ok := requireResult(api, update)
	if !ok {
		return
	}
	msg := tgbotapi.NewMessage(update.Message.Chat.ID,
		"<pre>\n"+GenerateCorrelationTable(result.Correlations)+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	api.Send(msg)

	if len(result.PopularityCorrelations) > 0 {
		msg = tgbotapi.NewMessage(update.Message.Chat.ID,
			"<pre>\n"+GenerateCorrelationTable(result.PopularityCorrelations)+"\n</pre>")
		msg.ParseMode = tgbotapi.ModeHTML
		api.Send(msg)
	}
}

func handlePairs(api *tgbotapi.BotAPI, update tgbotapi.Update) {
	result, ok := requireResult(api, update)
	if !ok {
		return
	}
	lines := make([]string, 0, len(result.Pairs))
	for _, p := range result.Pairs {
		lines = append(lines, fmt.Sprintf("%s vs %s", p.A, p.B))
	}
	api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
		fmt.Sprintf("%d dimension pairs:\n%s", len(result.Pairs), strings.Join(lines, "\n"))))
}

func handleQuadrantMap(api *tgbotapi.BotAPI, update tgbotapi.Update, spec string) {
	result, ok := requireResult(api, update)
	if !ok {
		return
	}
	parts := strings.Split(spec, "__")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Expected format: /map_<dimA>__<dimB>"))
		return
	}
	pair := normalizePair(result, parts[0], parts[1])
	labels := ClassifyQuadrants(result.Rows, pair)
	if len(labels) == 0 {
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			fmt.Sprintf("No products carry both %s and %s", pair.A, pair.B)))
		return
	}
	msg := tgbotapi.NewMessage(update.Message.Chat.ID,
		"<pre>\n"+GenerateQuadrantTable(result.Rows, pair, labels)+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	api.Send(msg)
}

// normalizePair maps command arguments back to real column names; commands
// lowercase dimension names the way headers get normalized.
func normalizePair(result *AnalysisResult, a, b string) models.DimensionPair {
	resolve := func(name string) string {
		for _, d := range RowDimensions(result.Rows) {
			if normalizeHeader(d) == normalizeHeader(name) {
				return d
			}
		}
		return name
	}
	return models.DimensionPair{A: resolve(a), B: resolve(b)}
}

func handleHiddenGems(api *tgbotapi.BotAPI, update tgbotapi.Update, dimension string) {
	result, ok := requireResult(api, update)
	if !ok {
		return
	}
	pair := normalizePair(result, dimension, dimension)
	api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
		GenerateHiddenGemsSummary(result.Rows, pair.A)))
}

func handleGenerateCommand(api *tgbotapi.BotAPI, update tgbotapi.Update, countText string) {
	result, ok := requireResult(api, update)
	if !ok {
		return
	}
	count, err := strconv.Atoi(countText)
	if err != nil {
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Expected format: /generate_<count>, e.g. /generate_200"))
		return
	}

	synthetic, err := handleGenerate(result.Survey, count)
	if err != nil {
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Generation failed: "+err.Error()))
		return
	}
	storeResult(update.Message.Chat.ID, synthetic)
	api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
		fmt.Sprintf("Generated %d synthetic respondents over %d products", count, len(synthetic.Rows))))
	sendAnalysis(update.Message.Chat.ID, synthetic, api)
}
