package main

import (
	"fmt"
	"os"

	"github.com/protonos/runtimecore/arch"
	"github.com/protonos/runtimecore/mem"
	"golang.org/x/sys/unix"
)

// resolveArch maps the --arch flag to a concrete profile. Unrecognized
// names fall back to AMD64 rather than erroring, since a typo here is a
// developer-tool inconvenience, not a correctness hazard: PointerSize and
// ByteOrder are identical between the two profiles this core supports.
func resolveArch(name string) arch.Architecture {
	if name == "arm64" {
		return arch.ARM64
	}
	return arch.AMD64
}

// mappedImage is a read-only mmap of a boot image file, wrapped in a
// mem.FakeReader so every package's (Reader, Address) API works against
// it unmodified — the same Reader the kernel itself would construct over
// its own address space, just backed by a file instead of live memory.
type mappedImage struct {
	data []byte
}

func mapImage(path string) (*mappedImage, *mem.FakeReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if st.Size() == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	im := &mappedImage{data: data}
	return im, mem.NewFakeReader(mem.Address(baseAddr), resolveArch(archName), data), nil
}

func (im *mappedImage) Close() error {
	return unix.Munmap(im.data)
}
