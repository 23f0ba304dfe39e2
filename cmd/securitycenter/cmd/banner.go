package cmd

import (
	"fmt"
)

const banner = `
  ____                       _ _          ____           _
 / ___|  ___  ___ _   _ _ __(_) |_ _   _ / ___|___ _ __ | |_ ___ _ __
 \___ \ / _ \/ __| | | | '__| | __| | | | |   / _ \ '_ \| __/ _ \ '__|
  ___) |  __/ (__| |_| | |  | | |_| |_| | |__|  __/ | | | ||  __/ |
 |____/ \___|\___|\__,_|_|  |_|\__|\__, |\____\___|_| |_|\__\___|_|
                                   |___/
`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Security Alerting Dashboard - Version %s\x1b[0m\n\n", Version)
}
