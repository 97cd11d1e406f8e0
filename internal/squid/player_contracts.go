package squid

import (
	"time"

	"github.com/squidgame/squid-ops/internal/entity"
	"github.com/squidgame/squid-ops/pkg/units"
)

const day = 24 * time.Hour

// PlayerContracts added by the role setup.
var PlayerContracts = []entity.PlayerContract{
	entity.NewPlayerContract(15*day, units.ToBN(15, 18), true),
	entity.NewPlayerContract(30*day, units.ToBN(285, 17), true),
	entity.NewPlayerContract(60*day, units.ToBN(51, 18), true),
}

// PlayerContractsV2 are priced in BSW.
var PlayerContractsV2 = []entity.PlayerContract{
	entity.NewPlayerContract(15*day, units.ToBN(375, 14), true),
	entity.NewPlayerContract(30*day, units.ToBN(7125, 13), true),
}

var PlayerContracts0102 = []entity.PlayerContract{
	entity.NewPlayerContract(15*day, units.ToBN(18, 18), true),
	entity.NewPlayerContract(30*day, units.ToBN(342, 17), true),
	entity.NewPlayerContract(60*day, units.ToBN(612, 17), true),
}

var PlayerContracts1502 = []entity.PlayerContract{
	entity.NewPlayerContract(15*day, units.ToBN(24, 18), true),
	entity.NewPlayerContract(30*day, units.ToBN(456, 17), true),
	entity.NewPlayerContract(60*day, units.ToBN(816, 17), true),
}

var PlayerContracts2602 = []entity.PlayerContract{
	entity.NewPlayerContract(15*day, units.ToBN(24, 18), true),
	entity.NewPlayerContract(30*day, units.ToBN(456, 17), true),
	entity.DisabledPlayerContract(),
}

var PlayerContracts2802 = []entity.PlayerContract{
	entity.DisabledPlayerContract(),
	entity.DisabledPlayerContract(),
	entity.DisabledPlayerContract(),
}

// SixtyDayContract is the index disabled on 20.02.
const SixtyDayContract = 2
