package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/futable/internal/audio"
	"github.com/abhisek/futable/internal/config"
	sess "github.com/abhisek/futable/internal/detail"
	"github.com/abhisek/futable/internal/explain"
	"github.com/abhisek/futable/internal/llm"
	"github.com/abhisek/futable/internal/logging"
	"github.com/abhisek/futable/internal/screens/detail"
	"github.com/abhisek/futable/internal/store"
	"github.com/abhisek/futable/internal/tts"
)

// deps holds everything a command needs to run explanation sessions.
type deps struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *store.Store
	explain *explain.Service
	speech  tts.Synthesizer
	ctrl    *sess.Controller
}

// openStore resolves the database path and opens the event store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// buildDeps loads configuration and wires the providers, the audio device
// and the session controller. Callers must call close.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	verbose, _ := flags.GetBool("verbose")
	mute, _ := flags.GetBool("mute")

	cfg, err := config.Load(config.Overrides{ConfigPath: configPath, Verbose: verbose, Mute: mute})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	st, err := openStore(cmd)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	d := &deps{cfg: cfg, logger: logger, store: st}

	events := st.EventRepo()
	provider, err := llm.NewProvider(ctx, cfg.LLM, llm.Options{
		Events:      events,
		Logger:      logger,
		MockContent: explain.SampleJSON,
	})
	if err != nil {
		d.close()
		return nil, err
	}
	d.explain = explain.NewService(provider, cfg.Explain)

	d.speech, err = tts.New(ctx, cfg.Speech, tts.Options{Events: events, Logger: logger})
	if err != nil {
		d.close()
		return nil, err
	}

	var device audio.Device
	if cfg.Audio.Backend == config.BackendSilent {
		device = audio.NewSilentDevice()
	} else {
		device = audio.NewSpeakerDevice(cfg.Audio.SampleRate)
	}

	d.ctrl = sess.New(sess.Options{
		Fetcher: d.explain,
		Speech:  d.speech,
		Device:  device,
		Events:  events,
		Logger:  logger,
	})

	logger.Info("futable starting",
		zap.String("version", version),
		zap.String("llm", cfg.LLM.Provider),
		zap.String("model", d.explain.ModelID()),
		zap.String("speech", cfg.Speech.Provider),
		zap.String("audio", cfg.Audio.Backend),
		zap.Bool("offline", cfg.Offline))
	return d, nil
}

func (d *deps) credits() detail.Credits {
	c := detail.Credits{SpeechModel: d.speech.ModelID()}
	if !d.cfg.Offline {
		c.ExplanationModel = d.explain.ModelID()
	}
	return c
}

// status is the header marker for the explanation backend.
func (d *deps) status() string {
	if d.cfg.Offline {
		return "离线模式"
	}
	return d.explain.ModelID()
}

// close shuts the controller down first so its pending session events
// reach the store before it closes.
func (d *deps) close() {
	if d.ctrl != nil {
		d.ctrl.Shutdown()
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Warn("closing store", zap.Error(err))
		}
	}
	_ = d.logger.Sync()
}
