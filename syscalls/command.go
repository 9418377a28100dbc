package syscalls

import (
	"libtock-go/errcode"
	"libtock-go/trap"
)

// Command issues a driver command and translates its status word.
func Command(p trap.Platform, driver trap.DriverNum, cmd trap.CommandNum, arg1, arg2 uintptr) (uint32, error) {
	return errcode.Result(p.Command(driver, cmd, arg1, arg2))
}

// Exists asks a driver whether it is present, using command 0 which every
// driver answers.
func Exists(p trap.Platform, driver trap.DriverNum) bool {
	_, err := Command(p, driver, 0, 0, 0)
	return err == nil
}
