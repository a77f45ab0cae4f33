// telegram_handler.go
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/survey_analyzer/config"
)

var (
	resultsMu      sync.Mutex
	currentResults = map[int64]*AnalysisResult{}
	resultTouched  = map[int64]time.Time{}
)

func storeResult(chatID int64, result *AnalysisResult) {
	resultsMu.Lock()
	defer resultsMu.Unlock()
	currentResults[chatID] = result
	resultTouched[chatID] = time.Now()
}

func loadResult(chatID int64) (*AnalysisResult, bool) {
	resultsMu.Lock()
	defer resultsMu.Unlock()
	result, ok := currentResults[chatID]
	if ok {
		resultTouched[chatID] = time.Now()
	}
	return result, ok
}

func dropStaleResults(maxAge time.Duration) {
	resultsMu.Lock()
	defer resultsMu.Unlock()
	for chatID, touched := range resultTouched {
		if time.Since(touched) > maxAge {
			delete(currentResults, chatID)
			delete(resultTouched, chatID)
		}
	}
}

func handleText(bot *tgbotapi.BotAPI, update tgbotapi.Update) {
	message := update.Message
	text := message.Text

	numbers := ExtractNumbers(text)
	if len(numbers) > 0 {
		stats := AnalyzeNumbers(numbers)
		msg := tgbotapi.NewMessage(message.Chat.ID, FormatStats(stats))
		bot.Send(msg)
		return
	}

	if len(strings.Fields(text)) >= qualitativeRouteWords {
		handleQualitativeText(bot, message.Chat.ID, text)
		return
	}

	welcomeText := `Hi! 👋

I analyze product survey data and build perceptual maps.

What I can do:
- Analyze CSV uploads with flexible column names (model/brand/tier/popularity plus any rating dimensions)
- Accept respondent-level responses or pre-aggregated mean tables
- Compute per-product means, dimension correlations and quadrant maps
- Generate synthetic biased respondent panels over your product roster
- Handle gzip, lz4 and zip archives

How to use me:
1. Send a CSV file right into the chat
2. Or send a sequence of numbers for a quick distribution summary
3. Or paste a paragraph of product feedback (100+ words) to get a proposed rating dimension set
4. After an upload, use commands like /details_<dimension>, /correlate, /map_<dimA>__<dimB>, /gems_<dimension>, /generate_<count>`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	bot.Send(msg)
}

// Messages with this many words or more are treated as qualitative feedback
// rather than a command typo.
const qualitativeRouteWords = 20

// handleQualitativeText proposes a rating dimension set from free-form product
// feedback. Extraction failures quietly fall back to the default set.
func handleQualitativeText(bot *tgbotapi.BotAPI, chatID int64, text string) {
	cfg := config.GetConfig()
	ctx, cancel := context.WithTimeout(context.Background(), extractorTimeout)
	defer cancel()

	dims, err := NewKeywordExtractor().ProposeDimensions(ctx, text,
		cfg.IndustryContext, KeywordService(cfg.KeywordService), cfg.KeywordAPIKey)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(chatID,
		"Proposed rating dimensions from your text:\n- "+strings.Join(dims, "\n- ")+
			"\n\nUpload a roster and use /generate_<count> to build a panel over them."))
}

func handleDocument(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	fileURL, err := bot.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		log.Printf("Error getting file URL: %v", err)
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "Cannot fetch this file from Telegram, please try again."))
		return
	}

	cfg := config.GetConfig()
	filePath := filepath.Join(cfg.DataDir, strconv.Itoa(message.From.ID), message.Document.FileName)
	if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		log.Printf("Error creating directory: %v", err)
		return
	}
	resp, err := http.Get(fileURL)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		return
	}
	defer resp.Body.Close()
	file, err := os.Create(filePath)
	if err != nil {
		log.Printf("Error creating file: %v", err)
		return
	}
	_, err = io.Copy(file, resp.Body)
	file.Close()
	if err != nil {
		log.Printf("Error writing file: %v", err)
		return
	}

	go func() {
		result, err := handleFile(filePath)
		if err != nil {
			log.Printf("Error analyzing %s: %v", filePath, err)
			bot.Send(tgbotapi.NewMessage(message.Chat.ID, "Analysis failed: "+err.Error()))
			return
		}
		storeResult(message.Chat.ID, result)
		sendAnalysis(message.Chat.ID, result, bot)
	}()
}

func sendAnalysis(chatID int64, result *AnalysisResult, bot *tgbotapi.BotAPI) {
	meansTable := GenerateAggregatedTable(result.Rows)
	msg := tgbotapi.NewMessage(chatID, "<pre>\n"+meansTable+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	bot.Send(msg)

	correlations := GenerateCorrelationTable(result.Correlations)
	msg = tgbotapi.NewMessage(chatID, "<pre>\n"+correlations+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	bot.Send(msg)

	artifacts := RunArtifacts{
		"aggregated.csv":      AggregatedTableCSV(result.Rows),
		"ratings.csv":         RatingsCSV(result.Survey.Ratings),
		"dimension_pairs.csv": DimensionPairsCSV(result.Pairs),
		"correlations.csv":    CorrelationsCSV(result.Correlations),
	}
	archive, err := ZipArtifacts(artifacts)
	if err != nil {
		log.Printf("Error building artifacts zip: %v", err)
		return
	}
	data := tgbotapi.FileBytes{
		Name:  "survey_analysis" + time.Now().Format("20060102-150405") + ".zip",
		Bytes: archive,
	}
	doc := tgbotapi.NewDocumentUpload(chatID, data)
	doc.Caption = "Full analysis bundle: means, respondent ratings, pair list, correlations. The aggregated.csv re-uploads cleanly."
	bot.Send(doc)
}
