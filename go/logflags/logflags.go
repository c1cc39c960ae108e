package logflags

import (
	"errors"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var cpuLayer = false
var execLayer = false
var tbLayer = false

var logOut io.Writer = os.Stderr

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Out = logOut
	logger.Logger.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// CPU returns true if core lifecycle events should be logged.
func CPU() bool {
	return cpuLayer
}

// CPULogger returns a logger for realize, reset and register writes.
func CPULogger() *logrus.Entry {
	return makeLogger(cpuLayer, logrus.Fields{"layer": "cpu"})
}

// Exec returns true if the dispatch loop should log block entries and exceptions.
func Exec() bool {
	return execLayer
}

func ExecLogger() *logrus.Entry {
	return makeLogger(execLayer, logrus.Fields{"layer": "exec"})
}

// TB returns true if translation cache activity should be logged.
func TB() bool {
	return tbLayer
}

func TBLogger() *logrus.Entry {
	return makeLogger(tbLayer, logrus.Fields{"layer": "tb"})
}

// SetOutput redirects every logger created afterwards.
func SetOutput(w io.Writer) {
	logOut = w
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the enabled layers based on the contents of logstr.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	cpuLayer, execLayer, tbLayer = false, false, false
	if !logFlag {
		log.SetOutput(ioutil.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "cpu"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "cpu":
			cpuLayer = true
		case "exec":
			execLayer = true
		case "tb":
			tbLayer = true
		}
	}
	return nil
}
