package center

import (
	"encoding/json"
	"os"
)

// FileWriter appends refresh output to JSONL files, one object per line.
// The files form a replayable history of what the dashboard showed.
type FileWriter struct {
	statusFile  *os.File
	summaryFile *os.File
	alertFile   *os.File
	statusEnc   *json.Encoder
	summaryEnc  *json.Encoder
	alertEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. summaryPath or alertPath may be empty
// to skip those logs.
func NewFileWriter(statusPath, summaryPath, alertPath string) (*FileWriter, error) {
	sf, err := os.Create(statusPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{statusFile: sf, statusEnc: json.NewEncoder(sf)}
	if summaryPath != "" {
		f, err := os.Create(summaryPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.summaryFile = f
		fw.summaryEnc = json.NewEncoder(f)
	}
	if alertPath != "" {
		f, err := os.Create(alertPath)
		if err != nil {
			if fw.summaryFile != nil {
				fw.summaryFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.alertFile = f
		fw.alertEnc = json.NewEncoder(f)
	}
	return fw, nil
}

// WriteStatus logs a single status row.
func (f *FileWriter) WriteStatus(row StatusRow) error {
	return f.statusEnc.Encode(row)
}

// WriteStatuses logs multiple status rows.
func (f *FileWriter) WriteStatuses(rows []StatusRow) error {
	for _, r := range rows {
		if err := f.WriteStatus(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary logs the summary row, if enabled.
func (f *FileWriter) WriteSummary(row SummaryRow) error {
	if f.summaryEnc == nil {
		return nil
	}
	return f.summaryEnc.Encode(row)
}

// WriteAlert logs a single alert row, if enabled.
func (f *FileWriter) WriteAlert(row AlertRow) error {
	if f.alertEnc == nil {
		return nil
	}
	return f.alertEnc.Encode(row)
}

// WriteAlerts logs multiple alert rows.
func (f *FileWriter) WriteAlerts(rows []AlertRow) error {
	for _, r := range rows {
		if err := f.WriteAlert(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.statusFile != nil {
		if e := f.statusFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.summaryFile != nil {
		if e := f.summaryFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.alertFile != nil {
		if e := f.alertFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
