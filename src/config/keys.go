package config

// Key names a single resolvable configuration value.
//
// Document directive tags map onto keys by lower-casing, so the
// closed tag set (#CPU:, #RAM:, ...) and this set stay aligned.
type Key string

const (
	KeyArch       Key = "arch"
	KeyMachine    Key = "machine"
	KeyCPU        Key = "cpu"
	KeyRAM        Key = "ram"
	KeyDisk       Key = "disk"
	KeyDisk2      Key = "disk2"
	KeyISO        Key = "iso"
	KeyOS         Key = "os"
	KeyPool       Key = "pool"
	KeyBridge     Key = "bridge"
	KeyIP         Key = "ip"
	KeyGateway    Key = "gateway"
	KeyDNS        Key = "dns"
	KeyHostname   Key = "hostname"
	KeyAgent      Key = "agent"
	KeySSH        Key = "ssh"
	KeySerial     Key = "serial"
	KeyUEFI       Key = "uefi"
	KeySecureBoot Key = "secureboot"
	KeyFirmware   Key = "firmware"
	KeyTPM        Key = "tpm"
	KeyVerbose    Key = "verbose"
	KeyQuiet      Key = "quiet"
)

// Keys lists every recognized key, in display order.
func Keys() []Key {
	return []Key{
		KeyArch, KeyMachine, KeyCPU, KeyRAM, KeyDisk, KeyDisk2,
		KeyISO, KeyOS, KeyPool, KeyBridge,
		KeyIP, KeyGateway, KeyDNS, KeyHostname,
		KeyAgent, KeySSH, KeySerial,
		KeyUEFI, KeySecureBoot, KeyFirmware, KeyTPM,
		KeyVerbose, KeyQuiet,
	}
}
