// FILE: lixenwraith/evtlog/type.go
package evtlog

import (
	"fmt"
	"strings"
)

// Severity is the syslog priority of a line, also the batching key
type Severity int

// Facility selects the backend a logger writes to
type Facility int

// EventType is the coarse record class used by event sinks
type EventType string

// Entry is a single buffered line
type Entry struct {
	Severity Severity
	Text     string
}

// severityNames holds the lowercase syslog names accepted by ParseSeverity
var severityNames = map[string]Severity{
	"emerg":     SevEmergency,
	"emergency": SevEmergency,
	"panic":     SevEmergency,
	"alert":     SevAlert,
	"crit":      SevCritical,
	"critical":  SevCritical,
	"err":       SevError,
	"error":     SevError,
	"warning":   SevWarning,
	"warn":      SevWarning,
	"notice":    SevNotice,
	"info":      SevInfo,
	"debug":     SevDebug,
}

var facilityNames = map[string]Facility{
	"kern":     FacKern,
	"user":     FacUser,
	"mail":     FacMail,
	"daemon":   FacDaemon,
	"auth":     FacAuth,
	"syslog":   FacSyslog,
	"lpr":      FacLpr,
	"news":     FacNews,
	"uucp":     FacUucp,
	"cron":     FacCron,
	"authpriv": FacAuthpriv,
	"ftp":      FacFtp,
	"local0":   FacLocal0,
	"local1":   FacLocal1,
	"local2":   FacLocal2,
	"local3":   FacLocal3,
	"local4":   FacLocal4,
	"local5":   FacLocal5,
	"local6":   FacLocal6,
	"local7":   FacLocal7,
}

// String returns the short text used in formatted records.
// Unknown values render as "ERROR".
func (s Severity) String() string {
	switch s {
	case SevEmergency:
		return "EMERG"
	case SevAlert:
		return "ALERT"
	case SevCritical:
		return "CRIT"
	case SevWarning:
		return "Warn"
	case SevNotice:
		return "Note"
	case SevInfo:
		return "Info"
	case SevDebug:
		return "Debug"
	default:
		return "ERROR"
	}
}

// Name returns the canonical lowercase syslog name
func (s Severity) Name() string {
	switch s {
	case SevEmergency:
		return "emerg"
	case SevAlert:
		return "alert"
	case SevCritical:
		return "crit"
	case SevError:
		return "err"
	case SevWarning:
		return "warning"
	case SevNotice:
		return "notice"
	case SevInfo:
		return "info"
	case SevDebug:
		return "debug"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// EventType maps a severity to the event class of structured sinks
func (s Severity) EventType() EventType {
	switch s {
	case SevWarning:
		return EventWarning
	case SevNotice, SevInfo, SevDebug:
		return EventInformation
	default:
		return EventError
	}
}

// ParseSeverity converts a syslog severity name to its constant
func ParseSeverity(name string) (Severity, error) {
	sev, ok := severityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return SevError, fmtErrorf("invalid severity: '%s' (use emerg, alert, crit, err, warning, notice, info, debug)", name)
	}
	return sev, nil
}

// String returns the syslog facility name
func (f Facility) String() string {
	for name, code := range facilityNames {
		if code == f {
			return name
		}
	}
	return fmt.Sprintf("facility(%d)", int(f))
}

// ParseFacility converts a syslog facility name to its constant
func ParseFacility(name string) (Facility, error) {
	fac, ok := facilityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FacDaemon, fmtErrorf("invalid facility: '%s'", name)
	}
	return fac, nil
}
