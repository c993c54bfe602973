package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&SimInfo{},
	&Run{},
	&StepState{},
	&EncounterState{},
}

// DatabaseModelsSQLite is the schema subset for the SQLite fallback.
// Identical today; split so dialect-specific tables can diverge.
var DatabaseModelsSQLite = []interface{}{
	&SimInfo{},
	&Run{},
	&StepState{},
	&EncounterState{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// SimInfo contains information about the recording instance
type SimInfo struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:127"`
	Description string `json:"description" gorm:"size:255"`
	Version     string `json:"version" gorm:"size:64"`
}

func (*SimInfo) TableName() string {
	return "sim_infos"
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Run is the main model for one simulation run
type Run struct {
	gorm.Model
	CaseID        int       `json:"case" gorm:"index:idx_run_case"`
	Dt            float64   `json:"dt"`
	SimTime       float64   `json:"simTime"`
	Steps         int       `json:"steps"`
	ObstacleCount int       `json:"obstacleCount"`
	Provider      string    `json:"provider" gorm:"size:64"`
	StartedAt     time.Time `json:"startedAt" gorm:"index:idx_run_start"`

	// Params is the full parameter snapshot (vessel model, controller
	// gains, field shape, risk thresholds) serialized at run start.
	Params datatypes.JSON `json:"params"`

	// Summary fields, written at run end.
	MaxRisk       float64 `json:"maxRisk"`
	AvgRisk       float64 `json:"avgRisk"`
	TurnSteps     int     `json:"turnSteps"`
	FinalDistance float64 `json:"finalDistance"`

	StepStates []StepState      `json:"-"`
	Encounters []EncounterState `json:"-"`
}

func (*Run) TableName() string {
	return "runs"
}

// StepState is one own-ship row of the per-step time series
type StepState struct {
	ID    uint `json:"id" gorm:"primarykey"`
	RunID uint `json:"runId" gorm:"index:idx_stepstate_run_id"`
	Run   Run  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`

	Step int     `json:"step" gorm:"index:idx_stepstate_step"`
	Time float64 `json:"time"`

	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Psi  float64 `json:"psi"`
	R    float64 `json:"r"`
	B    float64 `json:"b"`
	U    float64 `json:"u"`
	VelX float64 `json:"velX"`
	VelY float64 `json:"velY"`

	WaypointIndex  int     `json:"waypointIndex"`
	HeadingWpt     float64 `json:"headingWpt"`
	AvoidanceBias  float64 `json:"avoidanceBias"`
	RealizedSign   float64 `json:"realizedSign"`
	HeadingDesired float64 `json:"headingDesired"`
	MomentCmd      float64 `json:"momentCmd"`
	MomentApplied  float64 `json:"momentApplied"`
}

func (*StepState) TableName() string {
	return "step_states"
}

// EncounterState is one (step, obstacle) row of closing geometry. Both
// CPA variants share the row: the finite-difference fields are the
// primary ones, the Inst fields hold the instantaneous-velocity
// variant.
type EncounterState struct {
	ID    uint `json:"id" gorm:"primarykey"`
	RunID uint `json:"runId" gorm:"index:idx_encounterstate_run_id"`
	Run   Run  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`

	Step          int `json:"step" gorm:"index:idx_encounterstate_step"`
	ObstacleIndex int `json:"obstacleIndex"`

	ObX  float64 `json:"obX"`
	ObY  float64 `json:"obY"`
	ObVX float64 `json:"obVX"`
	ObVY float64 `json:"obVY"`

	Distance  float64 `json:"distance"`
	Bearing   float64 `json:"bearing"`
	DCPA      float64 `json:"dcpa"`
	TCPA      float64 `json:"tcpa"`
	RelSpeed  float64 `json:"relSpeed"`
	RelCourse float64 `json:"relCourse"`
	Closing   bool    `json:"closing"`

	DCPAInst     float64 `json:"dcpaInst"`
	TCPAInst     float64 `json:"tcpaInst"`
	RelSpeedInst float64 `json:"relSpeedInst"`
	ClosingInst  bool    `json:"closingInst"`

	Risk float64 `json:"risk"`
}

func (*EncounterState) TableName() string {
	return "encounter_states"
}
