package emulator

import (
	"fmt"
	"io"
)

// CD sector size in bytes
const SECTOR_SIZE uint64 = 2352

// Represents a disc region
type Region int

const (
	REGION_JAPAN         Region = iota // Japan (NTSC): SCEI
	REGION_NORTH_AMERICA Region = iota // North America (NTSC): SCEA
	REGION_EUROPE        Region = iota // Europe (PAL): SCEE
)

func GetHardwareFromRegion(region Region) HardwareType {
	switch region {
	case REGION_JAPAN, REGION_NORTH_AMERICA:
		return HARDWARE_NTSC
	case REGION_EUROPE:
		return HARDWARE_PAL
	}
	return HARDWARE_NTSC
}

// A PlayStation disc
type Disc struct {
	File   io.ReadSeeker // BIN reader
	Region Region
}

// Creates a new disc instance
func NewDisc(r io.ReadSeeker) (*Disc, error) {
	disc := &Disc{
		File: r,
	}
	err := disc.IdentifyRegion()
	if err != nil {
		return nil, err
	}
	return disc, nil
}

// LicenseCode returns the four-byte ASCII string GetID reports for this
// disc's region, matching the "SCEI"/"SCEA"/"SCEE" constants real licensed
// media carries.
func (disc *Disc) LicenseCode() [4]byte {
	switch disc.Region {
	case REGION_NORTH_AMERICA:
		return [4]byte{'S', 'C', 'E', 'A'}
	case REGION_EUROPE:
		return [4]byte{'S', 'C', 'E', 'E'}
	default:
		return [4]byte{'S', 'C', 'E', 'I'}
	}
}

// LeadOutMsf returns the BCD minute/second of the disc's lead-out (the
// position GetTD reports for track 0), computed from the underlying
// image's length; a single data-track image places the lead-out
// immediately after its last 2352-byte sector.
func (disc *Disc) LeadOutMsf() (mm, ss byte) {
	size, err := disc.File.Seek(0, io.SeekEnd)
	if err != nil {
		return 0x00, 0x02
	}
	sectors := uint32(uint64(size) / SECTOR_SIZE)
	msf := MsfFromSectorIndex(sectors + 150)
	return msf.M, msf.S
}

func (disc *Disc) RegionString() string {
	switch disc.Region {
	case REGION_JAPAN:
		return "Japan"
	case REGION_NORTH_AMERICA:
		return "North America"
	case REGION_EUROPE:
		return "Europe"
	}
	return ""
}

// Identifies the region of the disc
func (disc *Disc) IdentifyRegion() error {
	// sector 00:02:04 should contain the "Licensed by"... string
	msf := MsfFromBcd(0x00, 0x02, 0x04)
	sector, err := disc.ReadDataSector(msf)
	if err != nil {
		panic(err)
	}

	licenseData := sector.DataBytes()[0:76]

	// only leave characters A-z
	var license string
	for _, char := range licenseData {
		if char >= 'A' && char <= 'z' {
			license += string(char)
		}
	}

	switch license {
	case "LicensedbySonyComputerEntertainmentInc": // Japan
		disc.Region = REGION_JAPAN
	case "LicensedbySonyComputerEntertainmentAmerica": // North America
		disc.Region = REGION_NORTH_AMERICA
	case "LicensedbySonyComputerEntertainmentEurope": // Europe
		disc.Region = REGION_EUROPE
	default:
		return fmt.Errorf("invalid disc region string \"%s\"", license)
	}
	return nil
}

func (disc *Disc) ReadDataSector(msf Msf) (*XaSector, error) {
	sector, err := disc.ReadSector(msf)
	if err != nil {
		return nil, err
	}
	sector.ValidateMode1Or2(msf)
	return sector, nil
}

func (disc *Disc) ReadSector(msf Msf) (*XaSector, error) {
	index := msf.SectorIndex() - 150 // TODO: parse cuesheet
	pos := uint64(index) * SECTOR_SIZE
	_, err := disc.File.Seek(int64(pos), io.SeekStart)
	if err != nil {
		return nil, err
	}

	sector := NewXaSector()
	nread := 0

	for uint64(nread) < SECTOR_SIZE {
		n, err := disc.File.Read(sector.Data[nread:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("0 length sector read at 0x%x", nread)
		}
		nread += n
	}

	return sector, nil
}
