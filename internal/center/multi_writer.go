package center

// MultiWriter fans rows out to multiple writers of each stream.
type MultiWriter struct {
	statusWriters  []StatusWriter
	summaryWriters []SummaryWriter
	alertWriters   []AlertWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []StatusWriter, mws []SummaryWriter, aws []AlertWriter) *MultiWriter {
	return &MultiWriter{statusWriters: sws, summaryWriters: mws, alertWriters: aws}
}

// WriteStatus sends a status row to all status writers.
func (mw *MultiWriter) WriteStatus(row StatusRow) error {
	for _, w := range mw.statusWriters {
		if err := w.WriteStatus(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatuses sends multiple status rows to all writers, batching where
// supported.
func (mw *MultiWriter) WriteStatuses(rows []StatusRow) error {
	for _, w := range mw.statusWriters {
		if bw, ok := w.(batchStatusWriter); ok {
			if err := bw.WriteStatuses(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteStatus(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary sends the summary row to all summary writers.
func (mw *MultiWriter) WriteSummary(row SummaryRow) error {
	for _, w := range mw.summaryWriters {
		if err := w.WriteSummary(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert sends an alert row to all alert writers.
func (mw *MultiWriter) WriteAlert(row AlertRow) error {
	for _, w := range mw.alertWriters {
		if err := w.WriteAlert(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlerts sends multiple alerts to all alert writers, batching where
// supported.
func (mw *MultiWriter) WriteAlerts(rows []AlertRow) error {
	for _, w := range mw.alertWriters {
		if bw, ok := w.(batchAlertWriter); ok {
			if err := bw.WriteAlerts(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteAlert(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetWebStatus forwards the web UI indicator to any writer that shows it.
func (mw *MultiWriter) SetWebStatus(active bool) {
	for _, w := range mw.statusWriters {
		if ws, ok := w.(WebStatusWriter); ok {
			ws.SetWebStatus(active)
		}
	}
}
