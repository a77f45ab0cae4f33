package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/pivolan/survey_analyzer/config"
)

var bot *tgbotapi.BotAPI

func main() {
	cfg := config.GetConfig()

	var err error
	bot, err = tgbotapi.NewBotAPI(cfg.TgToken)
	if err != nil {
		log.Fatal("tg error", err)
	}
	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		log.Fatal("tg updates error", err)
	}

	go func() {
		for {
			time.Sleep(time.Minute)
			dropStaleResults(time.Hour)
			removeOldFiles(cfg.DataDir, time.Now().Add(-time.Hour*2))
		}
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		if update.Message.Document != nil {
			go handleDocument(bot, update.Message)
		} else if update.Message.IsCommand() {
			go handleCommand(bot, update)
		} else if update.Message.Text != "" {
			go handleText(bot, update)
		}
	}
}

func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())

		if file.IsDir() {
			err := removeOldFiles(filePath, maxAge)
			if err != nil {
				return err
			}
		} else {
			fileStat, err := os.Stat(filePath)
			if err != nil {
				return err
			}
			if fileStat.ModTime().Before(maxAge) {
				err := os.Remove(filePath)
				if err != nil {
					return err
				}
				fmt.Printf("Removed file: %s\n", filePath)
			}
		}
	}

	return nil
}
