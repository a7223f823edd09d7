package rc0

import "fmt"

// assignSources are the physical controls an assignment can listen to
var assignSources = func() []string {
	var names []string
	for i := 1; i <= 9; i++ {
		names = append(names, fmt.Sprintf("PEDAL%d", i))
	}
	for i := 1; i <= 6; i++ {
		names = append(names, fmt.Sprintf("CTL%d", i))
	}
	names = append(names, "EXP1", "EXP2")
	for i := 1; i <= 31; i++ {
		names = append(names, fmt.Sprintf("CC#%d", i))
	}
	for i := 64; i <= 95; i++ {
		names = append(names, fmt.Sprintf("CC#%d", i))
	}
	return names
}()

var trackActions = []string{
	"REC/PLAY", "REC/PLAY/STOP", "STOP", "CLEAR", "UNDO/REDO",
	"REVERSE", "1SHOT", "FX", "PLAY LEVEL", "PAN",
}

var globalActions = []string{
	"ALL START/STOP", "ALL CLEAR", "UNDO/REDO", "TAP TEMPO", "TEMPO UP", "TEMPO DOWN",
	"RHYTHM START/STOP", "RHYTHM VARIATION", "IFX ON/OFF", "TFX ON/OFF",
	"IFX BANK INC", "IFX BANK DEC", "TFX BANK INC", "TFX BANK DEC",
	"MEMORY INC", "MEMORY DEC", "MASTER LEVEL",
}

// assignTargets lists per-track actions for tracks 1..6 followed by the
// global actions
var assignTargets = func() []string {
	var names []string
	for t := 1; t <= NumTracks; t++ {
		for _, a := range trackActions {
			names = append(names, fmt.Sprintf("TRK%d %s", t, a))
		}
	}
	return append(names, globalActions...)
}()

// SourceName returns the display name of the assignment source
func (a Assign) SourceName() string {
	if a.Source >= 0 && a.Source < len(assignSources) {
		return assignSources[a.Source]
	}
	return fmt.Sprintf("SOURCE %d", a.Source)
}

// TargetName returns the display name of the assignment target
func (a Assign) TargetName() string {
	if a.Target >= 0 && a.Target < len(assignTargets) {
		return assignTargets[a.Target]
	}
	return fmt.Sprintf("TARGET %d", a.Target)
}
