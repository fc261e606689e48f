package runner

import (
	"github.com/projectdiscovery/gologger"
)

const banner = `
    __                    __   __    _           __
   / /_  ____ __      __ / /__/ /_  (_)___  ____/ /
  / __ \/ __ ` + "`" + `/ | /| / // //_/ __ \/ / __ \/ __  / 
 / / / / /_/ /| |/ |/ // ,< / /_/ / / / / / /_/ /  
/_/ /_/\__,_/ |__/|__//_/|_/_.___/_/_/ /_/\__,_/   
`

// version is the current version of hawkbind
const version = `v1.0.0`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tDNS enumeration tool %s\n\n", version)
}
