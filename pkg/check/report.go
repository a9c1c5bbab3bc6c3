package check

import (
	"encoding/json"

	. "github.com/weberc2/xcheck/pkg/types"
)

// Report summarizes one run.
type Report struct {
	RunID         string      `json:"runId"`
	Image         string      `json:"image,omitempty"`
	Superblock    Superblock  `json:"superblock"`
	InodesChecked Ino         `json:"inodesChecked"`
	BlocksInUse   Block       `json:"blocksInUse"`
	Violations    []Violation `json:"violations"`
}

func (report *Report) OK() bool { return len(report.Violations) < 1 }

// Err returns the first violation, or nil when there is none.
func (report *Report) Err() error {
	if report.OK() {
		return nil
	}
	return &report.Violations[0]
}

func (v Violation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Ino     Ino    `json:"ino,omitempty"`
		Block   Block  `json:"block,omitempty"`
	}{
		Kind:    v.Kind,
		Code:    v.Kind.Code(),
		Message: v.Kind.String(),
		Ino:     v.Ino,
		Block:   v.Block,
	})
}
