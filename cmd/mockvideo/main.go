package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/mockvideo/internal/config"
	"github.com/ivlev/mockvideo/internal/engine"
	"github.com/ivlev/mockvideo/internal/logging"
	"github.com/ivlev/mockvideo/internal/system"
	"github.com/ivlev/mockvideo/internal/timeline"
	"github.com/ivlev/mockvideo/internal/video"
)

// version задается при сборке через -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPtr := flag.String("config", "", "YAML-файл конфигурации, флаги имеют приоритет")
	settingsPtr := flag.String("settings", "", "YAML-файл настроек редактора (fps, videoLoop)")
	sessionPtr := flag.String("session", "", "Путь к сессии (по умолчанию: самый свежий YAML в -session-dir)")
	sessionDirPtr := flag.String("session-dir", "sessions", "Папка с сессиями")
	videoPtr := flag.String("video", "", "Путь к видео или папке с видео (длительность определяется через ffprobe)")
	endPtr := flag.Float64("end", 10, "Длительность контента в секундах, если ее нет в сессии и видео")
	fpsPtr := flag.Int("fps", 30, "FPS")
	loopPtr := flag.Bool("loop", false, "Зациклить воспроизведение")
	refreshPtr := flag.Duration("refresh", time.Second/60, "Период обновления дисплея")
	runForPtr := flag.Duration("run-for", 0, "Остановить сессию через указанное время (0 - до сигнала или конца)")
	reportPtr := flag.Duration("report-every", time.Second, "Период вывода трансформаций (0 - отключить)")
	seekPtr := flag.String("seek", "", "Список позиций для перемотки через запятую, например 1,2.5")
	autoplayPtr := flag.Bool("autoplay", true, "Начать воспроизведение сразу")
	logLevelPtr := flag.String("log-level", "info", "Уровень логирования: debug, info, warn, error")
	logEncodingPtr := flag.String("log-encoding", "console", "Формат логов: console, json")
	savePtr := flag.Bool("save-session", false, "Сохранить нормализованную сессию в -session-dir с меткой времени")
	versionPtr := flag.Bool("version", false, "Показать версию")

	flag.Parse()

	if *versionPtr {
		fmt.Println(version)
		return nil
	}

	cfg := config.Default()
	cfg.BuildVersion = version
	if *configPtr != "" {
		if err := config.LoadConfigFile(*configPtr, &cfg); err != nil {
			return fmt.Errorf("конфигурация %s: %w", *configPtr, err)
		}
	}
	if *settingsPtr != "" {
		s, err := config.LoadSettings(*settingsPtr)
		if err != nil {
			return fmt.Errorf("настройки %s: %w", *settingsPtr, err)
		}
		cfg.Settings = s
	}

	// Явно заданные флаги перекрывают файлы
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "session":
			cfg.SessionPath = *sessionPtr
		case "session-dir":
			cfg.SessionDir = *sessionDirPtr
		case "video":
			cfg.VideoPath = *videoPtr
		case "end":
			cfg.EndTime = *endPtr
		case "fps":
			cfg.Settings.FPS = *fpsPtr
		case "loop":
			cfg.Settings.VideoLoop = *loopPtr
		case "refresh":
			cfg.Refresh = *refreshPtr
		case "run-for":
			cfg.RunFor = *runForPtr
		case "report-every":
			cfg.ReportEvery = *reportPtr
		case "seek":
			seeks, err := parseSeeks(*seekPtr)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Seeks = seeks
		case "autoplay":
			cfg.Autoplay = *autoplayPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		case "log-encoding":
			cfg.LogEncoding = *logEncodingPtr
		}
	})
	if flagErr != nil {
		return flagErr
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("version", cfg.BuildVersion))

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SessionPath == "" {
		latest, err := timeline.FindLatestSession(cfg.SessionDir)
		if err != nil {
			return fmt.Errorf("%w. Положите сессию в %s/", err, cfg.SessionDir)
		}
		cfg.SessionPath = latest
		logger.Info("выбрана сессия", zap.String("path", cfg.SessionPath))
	}

	session, err := timeline.ReadSession(cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	if *savePtr {
		saved, err := saveSession(session, cfg.SessionDir)
		if err != nil {
			return fmt.Errorf("ошибка сохранения сессии: %w", err)
		}
		logger.Info("сессия сохранена", zap.String("path", saved))
	}

	var opts []engine.Option
	opts = append(opts, engine.WithLogger(logger))

	if cfg.VideoPath != "" {
		videoPath, err := resolveVideo(cfg.VideoPath)
		if err != nil {
			return err
		}
		cfg.VideoPath = videoPath

		duration, err := video.ProbeDuration(ctx, cfg.VideoPath)
		if err != nil {
			logger.Warn("не удалось получить длительность видео", zap.String("path", cfg.VideoPath), zap.Error(err))
		} else {
			logger.Info("длительность установлена по видео", zap.String("path", cfg.VideoPath), zap.Float64("duration", duration))
			opts = append(opts, engine.WithMediaDuration(duration))
		}
	}

	editor, err := engine.NewEditor(cfg, session, opts...)
	if err != nil {
		return err
	}
	defer editor.Close()

	report, err := editor.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("[+++] Готово: позиция %.3fs, кадр %d, обновлений %d\n", report.Playhead, report.Frame, report.Updates)
	return nil
}

// saveSession writes the normalized session to a new timestamped file in dir
func saveSession(session *timeline.Session, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := timeline.GenerateSessionPath(dir)
	if err := timeline.WriteSession(session, path); err != nil {
		return "", err
	}
	return path, nil
}

// resolveVideo accepts a file or a directory, in which case the newest video is used
func resolveVideo(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return path, nil
	}
	return system.FindLatestVideo(path)
}

func parseSeeks(list string) ([]float64, error) {
	var seeks []float64
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("неверная позиция %q: %w", part, err)
		}
		seeks = append(seeks, t)
	}
	return seeks, nil
}
