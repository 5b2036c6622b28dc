// FILE: lixenwraith/evtlog/constant.go
package evtlog

import (
	"time"
)

// Severity levels, syslog ordering
const (
	SevEmergency Severity = iota
	SevAlert
	SevCritical
	SevError
	SevWarning
	SevNotice
	SevInfo
	SevDebug
)

// Facilities, syslog codes
const (
	FacKern     Facility = 0
	FacUser     Facility = 1
	FacMail     Facility = 2
	FacDaemon   Facility = 3
	FacAuth     Facility = 4
	FacSyslog   Facility = 5
	FacLpr      Facility = 6
	FacNews     Facility = 7
	FacUucp     Facility = 8
	FacCron     Facility = 9
	FacAuthpriv Facility = 10
	FacFtp      Facility = 11
	FacLocal0   Facility = 16
	FacLocal1   Facility = 17
	FacLocal2   Facility = 18
	FacLocal3   Facility = 19
	FacLocal4   Facility = 20
	FacLocal5   Facility = 21
	FacLocal6   Facility = 22
	FacLocal7   Facility = 23
)

// Event types reported to structured sinks
const (
	EventError       EventType = "error"
	EventWarning     EventType = "warning"
	EventInformation EventType = "information"
)

// Limits
const (
	// Longest formatted message accepted by Logf
	maxMessageBytes = 999
	// Longest identity string kept
	maxIdentityBytes = 99
	// Upper bound for configured ring capacity
	maxCapacity = 4096
)

// Timers
const (
	// Infinite wait marker for acquireFilled
	waitForever time.Duration = -1
)

// Message substituted for formats using the unsupported %m verb
const percentMMessage = `Internal error: "%m" in log message`
