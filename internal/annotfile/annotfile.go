// Package annotfile persists annotation sessions as versioned JSON files:
// every set's nodes and edges plus the calibration that produced the derived
// values.
package annotfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MikeWise2718/fish-scales-sub003/internal/annotation"
	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
)

// FormatVersion is written into every file and checked on load.
const FormatVersion = 1

// CalibrationRecord persists the conversion factor and its provenance.
type CalibrationRecord struct {
	UmPerPixel float64 `json:"um_per_pixel"`
	Method     string  `json:"method"`
}

// SetRecord persists one annotation set. Operation logs are deliberately not
// saved; history does not survive a reload.
type SetRecord struct {
	ID    int                   `json:"id"`
	Name  string                `json:"name"`
	Nodes []annotation.Tubercle `json:"nodes"`
	Edges []annotation.Edge     `json:"edges"`
}

// File is the on-disk annotation document.
type File struct {
	Version     int                `json:"version"`
	SavedAt     time.Time          `json:"saved_at"`
	ImagePath   string             `json:"image_path,omitempty"`
	Calibration *CalibrationRecord `json:"calibration,omitempty"`
	ActiveSet   int                `json:"active_set"`
	Sets        []SetRecord        `json:"sets"`
}

// Snapshot captures the registry and calibration into a serializable File.
func Snapshot(reg *annotation.Registry, cal *calibration.Model, imagePath string) *File {
	f := &File{
		Version:   FormatVersion,
		SavedAt:   time.Now(),
		ImagePath: imagePath,
		ActiveSet: -1,
	}
	if cal.Calibrated() {
		f.Calibration = &CalibrationRecord{
			UmPerPixel: cal.UmPerPixel(),
			Method:     string(cal.Method()),
		}
	}
	if active := reg.Active(); active != nil {
		f.ActiveSet = active.ID
	}
	for _, s := range reg.Sets() {
		f.Sets = append(f.Sets, SetRecord{
			ID:    s.ID,
			Name:  s.Name,
			Nodes: s.Nodes(),
			Edges: s.Edges(),
		})
	}
	return f
}

// Save writes the current session state to path and clears every set's dirty
// flag on success.
func Save(path string, reg *annotation.Registry, cal *calibration.Model, imagePath string) error {
	data, err := json.MarshalIndent(Snapshot(reg, cal, imagePath), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write annotation file: %w", err)
	}
	for _, s := range reg.Sets() {
		s.MarkSaved()
	}
	return nil
}

// Load parses an annotation file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse annotation file: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported annotation file version %d", f.Version)
	}
	return &f, nil
}

// Apply replaces the registry's content and the calibration with the file's.
// Derived values are recomputed against the loaded calibration, and edges
// referencing unknown nodes are silently dropped.
func (f *File) Apply(reg *annotation.Registry, cal *calibration.Model) error {
	if f.Calibration != nil {
		if err := cal.Load(f.Calibration.UmPerPixel, calibration.Method(f.Calibration.Method)); err != nil {
			return fmt.Errorf("invalid calibration in annotation file: %w", err)
		}
	}
	reg.Reset()
	for _, rec := range f.Sets {
		s := reg.RestoreSet(rec.ID, rec.Name)
		s.Restore(rec.Nodes, rec.Edges)
	}
	if f.ActiveSet >= 0 {
		if err := reg.SetActive(f.ActiveSet); err != nil {
			return fmt.Errorf("annotation file names unknown active set %d: %w", f.ActiveSet, err)
		}
	}
	return nil
}
