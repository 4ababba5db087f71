// Package img creates and inspects flash image files. A bare image is just
// erased pages. A formatted image additionally carries an MBR and a single
// FAT32 filesystem so that whatever host ends up mounting the flashed part
// can read it; the gate itself never interprets image contents.
package img

import (
	"fmt"
	"os"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/fat32"
	"github.com/diskfs/go-diskfs/partition/mbr"

	"github.com/rabidaudio/flashgate/flash"
)

// DiskSize is the default image size: the smallest capacity that still
// fits a FAT32 filesystem. It is a whole number of flash pages.
const DiskSize = 33 * fat32.MB

const SectorSize = 512

// partStart is the customary first-partition offset, in sectors.
const partStart = 2048

func checkSize(size int64) error {
	if size <= 0 || size%flash.PageSize != 0 {
		return fmt.Errorf("img: size %d is not a whole number of %d-byte pages", size, flash.PageSize)
	}
	return nil
}

// Create writes a bare image of the given size at path, every page erased.
func Create(path string, size int64) (err error) {
	if err = checkSize(size); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if c := f.Close(); err == nil {
			err = c
		}
	}()

	page := make([]byte, flash.PageSize)
	for i := range page {
		page[i] = 0xFF
	}
	for written := int64(0); written < size; written += flash.PageSize {
		if _, err = f.Write(page); err != nil {
			return err
		}
	}
	return nil
}

// Format creates an image at path with an MBR and a single FAT32 partition.
// A zero size means DiskSize.
func Format(path string, size int64, label string) error {
	if size == 0 {
		size = DiskSize
	}
	if err := checkSize(size); err != nil {
		return err
	}
	dsk, err := diskfs.Create(path, size, diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return err
	}

	table := &mbr.Table{
		LogicalSectorSize:  SectorSize,
		PhysicalSectorSize: SectorSize,
		Partitions: []*mbr.Partition{
			{
				Bootable: false,
				Type:     mbr.Fat32LBA,
				Start:    partStart,
				Size:     uint32(size/SectorSize) - partStart,
			},
		},
	}
	err = dsk.Partition(table)
	if err != nil {
		defer os.Remove(path)
		return err
	}
	_, err = dsk.CreateFilesystem(disk.FilesystemSpec{
		Partition:   1,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: label,
	})
	if err != nil {
		defer os.Remove(path)
		return err
	}
	return nil
}

// List returns the names of the files in the root directory of a formatted
// image.
func List(path string) ([]string, error) {
	dsk, err := diskfs.Open(path)
	if err != nil {
		return nil, err
	}
	fs, err := dsk.GetFilesystem(1)
	if err != nil {
		return nil, err
	}
	files, err := fs.ReadDir("/")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	return names, nil
}

// Pages reports how many flash pages an image file holds.
func Pages(path string) (int, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.Size() == 0 || st.Size()%flash.PageSize != 0 {
		return 0, fmt.Errorf("img: %s is not a whole number of pages", path)
	}
	return int(st.Size() / flash.PageSize), nil
}
