// Package detector scores time series for anomalies.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Detector interface: Detect for the newest point, DetectMany for blocks
//   - ZScore struct: local detector, no network access
//   - Nixtla struct: client for the TimeGPT online anomaly detection API
//   - New: picks an implementation from Config.Kind
//   - FX module: provides the configured Detector
//
// ZScore flags a point when it sits more than Threshold standard deviations
// from the mean of the points before it. Nixtla sends the series to the
// TimeGPT endpoint, which fits a forecast and flags points outside its
// prediction interval at the requested Level. Result.Lower and Result.Upper
// carry that interval; ZScore fills them with mean ± Threshold·stddev.
//
// Detect scores only the newest point and is what the monitor calls once per
// sample. DetectMany scores the trailing Options.DetectionSize points of many
// series in one call and serves the batch and sentry jobs.
//
// Core Features:
//   - Minimum series length before anything is scored
//   - Regular series frequency mapped to the API's pandas-style aliases
//   - HTTP status codes translated into package errors
//   - Integration with the observability package for every call
//
// # Direct Usage (Without FX)
//
//	det, err := detector.New(detector.Config{
//		Kind:      detector.KindNixtla,
//		MinPoints: 10,
//		Nixtla:    detector.NixtlaConfig{APIKey: key, Level: 99},
//	}, observer)
//	if err != nil {
//		return err
//	}
//
//	res, err := det.Detect(ctx, detector.Series{ID: "CPU", Points: points, Freq: time.Minute})
//	if errors.Is(err, detector.ErrNotEnoughData) {
//		// still warming up; res carries the last value, not anomalous
//	}
//
// # FX Module Integration
//
//	app := fx.New(
//		detector.FXModule, // Provides detector.Detector
//		fx.Supply(detectorCfg),
//		fx.Provide(observability.NewNoOpObserver),
//	)
//
// # Configuration
//
//	DETECTOR=nixtla                      # nixtla or zscore
//	DETECTOR_MIN_POINTS=10               # shortest series that is scored
//	ZSCORE_THRESHOLD=3.0                 # standard deviations
//	NIXTLA_BASE_URL=https://api.nixtla.io
//	NIXTLA_API_KEY=...                   # required for nixtla
//	NIXTLA_MODEL=timegpt-1
//	NIXTLA_TIMEOUT=60s
//	NIXTLA_LEVEL=99                      # confidence used by Detect
//
// # Errors
//
// ErrNotEnoughData marks a short series and is not a failure. Remote failures
// wrap ErrDetectorUnavailable, ErrUnauthorized, ErrRateLimited or
// ErrInvalidResponse so callers can match them with errors.Is.
//
// # Observability
//
// Every call reports to the observability.Observer with the detector kind as
// component and the number of points as size. ZScore reports "detect" and
// "detect_many" separately. Nixtla reports one "detect" per API request, with
// the series ID as resource when a single series was sent.
package detector
