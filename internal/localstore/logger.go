package localstore

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// glogger routes badger's internal logging through glog. Badger is chatty at
// info level, so info and debug lines only show up with -v=2 and -v=3.
type glogger struct{}

func (glogger) Errorf(format string, args ...interface{}) {
	glog.ErrorDepth(1, line(format, args...))
}

func (glogger) Warningf(format string, args ...interface{}) {
	glog.WarningDepth(1, line(format, args...))
}

func (glogger) Infof(format string, args ...interface{}) {
	if glog.V(2) {
		glog.InfoDepth(1, line(format, args...))
	}
}

func (glogger) Debugf(format string, args ...interface{}) {
	if glog.V(3) {
		glog.InfoDepth(1, line(format, args...))
	}
}

func line(format string, args ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
