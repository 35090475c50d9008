package kernel

import (
	"io"

	"github.com/rv32emu/rv32emu/pkg/memory"
)

// Linux RV32 syscall numbers spec.md §6 names.
const (
	sysWrite          = 64
	sysWritev         = 66
	sysReadlinkat     = 78
	sysExit           = 93
	sysExitGroup      = 94
	sysSetTidAddress  = 96
	sysSetRobustList  = 99
	sysTgkill         = 131
	sysRtSigaction    = 134
	sysRtSigprocmask  = 135
	sysGetpid         = 172
	sysGettid         = 178
	sysBrk            = 214
	sysMmap           = 222
	sysMprotect       = 226
	sysRiscvHwprobe   = 258
	sysGetrlimit      = 261
	sysGetrandom      = 278
	sysStatx          = 291
	sysPpoll          = 414
	sysFutex          = 422
)

// dispatch runs one syscall. It returns the value to place in a0, or a
// non-nil exitCode when the call terminates the guest (exit/exit_group).
func (k *Kernel) dispatch(num uint32, args [6]uint32, mem memory.Memory) (result uint32, exitCode *int32, err error) {
	switch num {
	case sysWrite:
		return k.write(args[0], args[1], args[2], mem), nil, nil
	case sysWritev:
		return k.writev(args[0], args[1], args[2], mem), nil, nil
	case sysReadlinkat:
		return errno(errENOSYS), nil, nil
	case sysExit, sysExitGroup:
		code := int32(args[0])
		return 0, &code, nil
	case sysSetTidAddress:
		return uint32(k.pid), nil, nil
	case sysSetRobustList:
		return 0, nil, nil
	case sysTgkill:
		return 0, nil, nil
	case sysRtSigaction, sysRtSigprocmask:
		return 0, nil, nil
	case sysGetpid, sysGettid:
		return uint32(k.pid), nil, nil
	case sysBrk:
		return k.brkSyscall(args[0]), nil, nil
	case sysMmap:
		return k.mmap(args[0], args[1], args[2], args[3], int32(args[4]), args[5]), nil, nil
	case sysMprotect:
		return 0, nil, nil // permissive: every mapping is already RWX
	case sysRiscvHwprobe:
		return errno(errENOSYS), nil, nil
	case sysGetrlimit:
		return k.getrlimit(args[1], mem), nil, nil
	case sysGetrandom:
		return k.getrandom(args[0], args[1], mem), nil, nil
	case sysStatx:
		return errno(errENOSYS), nil, nil
	case sysPpoll:
		return errno(errENOSYS), nil, nil
	case sysFutex:
		// No second hart ever contends a futex in this core (spec.md §5);
		// report success so single-threaded pthread/TLS startup proceeds.
		return 0, nil, nil
	default:
		return errno(errENOSYS), nil, nil
	}
}

func (k *Kernel) write(fd, ptr, count uint32, mem memory.Memory) uint32 {
	w := k.writerFor(fd)
	if w == nil {
		return errno(errEBADF)
	}
	buf := make([]byte, count)
	for i := uint32(0); i < count; i++ {
		b, err := mem.LoadU8(ptr + i)
		if err != nil {
			return errno(errEFAULT)
		}
		buf[i] = b
	}
	n, _ := w.Write(buf)
	return uint32(n)
}

// writev reads `iovcnt` { base u32, len u32 } structs starting at iovPtr
// and writes each buffer in turn, Linux struct iovec layout on a 32-bit ABI.
func (k *Kernel) writev(fd, iovPtr, iovcnt uint32, mem memory.Memory) uint32 {
	w := k.writerFor(fd)
	if w == nil {
		return errno(errEBADF)
	}
	var total uint32
	for i := uint32(0); i < iovcnt; i++ {
		entry := iovPtr + i*8
		base, err1 := mem.LoadU32(entry)
		length, err2 := mem.LoadU32(entry + 4)
		if err1 != nil || err2 != nil {
			return errno(errEFAULT)
		}
		total += k.write(fd, base, length, mem)
	}
	return total
}

func (k *Kernel) writerFor(fd uint32) interface {
	Write([]byte) (int, error)
} {
	switch fd {
	case 1:
		return k.Stdout
	case 2:
		return k.Stderr
	default:
		return nil
	}
}

func (k *Kernel) brkSyscall(addr uint32) uint32 {
	if addr == 0 {
		return k.brk
	}
	k.brk = addr
	return k.brk
}

func (k *Kernel) mmap(addr, length, prot uint32, flags uint32, fd int32, offset uint32) uint32 {
	_ = prot
	if flags&MapAnonymous == 0 || fd != -1 {
		return errno(errEINVAL) // file-backed mmap is not supported by this shim
	}
	base := k.mmapTop
	k.mmapTop += alignUp4k(length)
	if flags&MapFixed != 0 && addr != 0 {
		base = addr
	}
	return base
}

func alignUp4k(v uint32) uint32 {
	const page = 4096
	return (v + page - 1) &^ (page - 1)
}

func (k *Kernel) getrlimit(rlimPtr uint32, mem memory.Memory) uint32 {
	if rlimPtr == 0 {
		return 0
	}
	// struct rlimit { rlim_cur, rlim_max } — report unlimited.
	_ = mem.StoreU32(rlimPtr, 0xFFFFFFFF)
	_ = mem.StoreU32(rlimPtr+4, 0xFFFFFFFF)
	return 0
}

func (k *Kernel) getrandom(buf, buflen uint32, mem memory.Memory) uint32 {
	scratch := make([]byte, buflen)
	if _, err := io.ReadFull(k.Rand, scratch); err != nil {
		return errno(errEFAULT)
	}
	for i, b := range scratch {
		if err := mem.StoreU8(buf+uint32(i), b); err != nil {
			return errno(errEFAULT)
		}
	}
	return buflen
}
