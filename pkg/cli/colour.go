package cli

const (
	Reset         = "\033[0m"
	RedColour     = "\033[31m"
	GreenColour   = "\033[32m"
	YellowColour  = "\033[33m"
	BlueColour    = "\033[34m"
	MagentaColour = "\033[35m"
	CyanColour    = "\033[36m"
	GrayColour    = "\033[37m"
	WhiteColour   = "\033[97m"
)
