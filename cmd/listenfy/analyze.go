package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/auth"
	"github.com/justestif/go-listenfy/internal/config"
	"github.com/justestif/go-listenfy/internal/logger"
	"github.com/justestif/go-listenfy/internal/mood"
	"github.com/justestif/go-listenfy/internal/spotify"
)

type analyzeOptions struct {
	live      bool
	timeRange string
	mix       int
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify the mood of a batch of audio features",
		Long: `Read a JSON array of audio feature records from a file, or from
stdin when no file is given, and print the mood analysis as JSON.

With --live the records come from your Spotify top tracks instead. The
first run opens a browser login; the token is cached afterwards.

With --mix N the batch is split into up to N mood segments.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.live && len(args) > 0 {
				return errors.New("--live does not take a file")
			}
			if opts.mix < 0 {
				return errors.New("--mix must not be negative")
			}

			var (
				records []*mood.AudioFeatures
				err     error
			)
			if opts.live {
				records, err = liveFeatures(cmd.Context(), cmd.ErrOrStderr(), opts.timeRange)
			} else {
				records, err = readFeatures(cmd.InOrStdin(), args)
			}
			if err != nil {
				return err
			}

			return writeAnalysis(cmd.OutOrStdout(), records, opts.mix)
		},
	}

	cmd.Flags().BoolVar(&opts.live, "live", false, "Analyze your Spotify top tracks")
	cmd.Flags().StringVar(&opts.timeRange, "time-range", string(spotify.MediumTerm), "Time range for --live: short_term, medium_term or long_term")
	cmd.Flags().IntVar(&opts.mix, "mix", 0, "Split the batch into up to N mood segments")
	return cmd
}

// readFeatures decodes audio features from the named file, or from in.
func readFeatures(in io.Reader, args []string) ([]*mood.AudioFeatures, error) {
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var records []*mood.AudioFeatures
	if err := json.NewDecoder(in).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding audio features: %w", err)
	}
	return records, nil
}

// liveFeatures logs in and fetches audio features for the user's top tracks.
func liveFeatures(ctx context.Context, prompt io.Writer, rawRange string) ([]*mood.AudioFeatures, error) {
	timeRange, err := spotify.ParseTimeRange(rawRange)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	authenticator, err := auth.New(cfg, log, prompt)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client, err := authenticator.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	tracks, features, err := client.TrackFeatures(ctx, timeRange, spotify.DefaultLimit)
	if err != nil {
		return nil, err
	}

	log.Debug("fetched top tracks", zap.String("time_range", string(timeRange)), zap.Int("count", len(tracks)))
	return features, nil
}

// writeAnalysis prints the analysis, or the mood mix when clusters > 0.
func writeAnalysis(w io.Writer, records []*mood.AudioFeatures, clusters int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if clusters == 0 {
		return enc.Encode(mood.Analyze(records))
	}

	segments := mood.Mix(records, mood.MixConfig{NumClusters: clusters})
	if segments == nil {
		segments = []mood.Segment{}
	}
	return enc.Encode(map[string][]mood.Segment{"segments": segments})
}
