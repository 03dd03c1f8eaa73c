// FILE: eslogger/src/eslog/caller.go
package eslog

import (
	"runtime"
	"strings"

	"eslogger/src/internal/core"
)

// callerDepth skips callerSite, Logger.log and the public logging function.
const callerDepth = 3

// callerSite describes the code that called a logging function.
func callerSite(skip int) core.Site {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return core.Site{}
	}
	return core.Site{
		Function: funcName(pc),
		File:     file,
		Line:     line,
	}
}

// funcName strips the import path, "eslogger/src/eslog.(*Logger).Info"
// becomes "(*Logger).Info".
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// shortenPath returns the part of file after the last "<prefix>/". Paths
// without the prefix are returned unchanged.
func shortenPath(file, prefix string) string {
	if prefix == "" {
		return file
	}
	marker := strings.TrimSuffix(prefix, "/") + "/"
	if i := strings.LastIndex(file, marker); i >= 0 {
		return file[i+len(marker):]
	}
	return file
}
