package session

import (
	"errors"
	"time"

	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/logging"
)

// Options identifies a counting session.
type Options struct {
	LogDir   string
	Operator string
	Location string
	// Started dates the log file name; zero means now.
	Started time.Time
}

// Session is a Classifier bound to its log file.
type Session struct {
	*Classifier
	writer *FileWriter
	logger logging.Logger
}

// Open starts a session: the log file is opened (and created if needed)
// right away so a broken log directory is reported before any scanning.
func Open(opts Options, cat *catalog.Catalog, logger logging.Logger, classifierOpts ...Option) (*Session, error) {
	started := opts.Started
	if started.IsZero() {
		started = time.Now()
	}

	writer, err := OpenFileWriter(opts.LogDir, started, opts.Operator, opts.Location)
	if err != nil {
		return nil, err
	}

	logger = logger.WithFields(
		logging.F(logging.FieldOperator, opts.Operator),
		logging.F(logging.FieldLocation, opts.Location),
		logging.F(logging.FieldFile, writer.Path()))
	logger.Info("Session started")

	return &Session{
		Classifier: NewClassifier(cat, writer, logger, classifierOpts...),
		writer:     writer,
		logger:     logger,
	}, nil
}

// Path returns the session log file path.
func (s *Session) Path() string {
	return s.writer.Path()
}

// Close flushes the open entry and closes the log file. Further input is
// refused with ErrClosed. Closing twice is a no-op.
func (s *Session) Close() error {
	if errors.Is(s.failed, ErrClosed) {
		return nil
	}

	flushErr := s.Flush()
	closeErr := s.writer.Close()
	s.failed = ErrClosed

	if err := errors.Join(flushErr, closeErr); err != nil {
		s.logger.WithError(err).Error("Session closed with errors")
		return err
	}
	s.logger.Info("Session closed", logging.F(logging.FieldCount, s.store.Len()))
	return nil
}
