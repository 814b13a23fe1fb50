// Package fileutil holds the small filesystem helpers shared by the engines:
// atomic writes, moves across filesystems, and the output path policy.
package fileutil
