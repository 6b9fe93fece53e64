package app

import (
	"github.com/specialistvlad/terragridgo/internal/registry"
	"github.com/specialistvlad/terragridgo/modules/blend"
	"github.com/specialistvlad/terragridgo/modules/colorize"
	"github.com/specialistvlad/terragridgo/modules/constant"
	"github.com/specialistvlad/terragridgo/modules/export"
	"github.com/specialistvlad/terragridgo/modules/gradienttalus"
	"github.com/specialistvlad/terragridgo/modules/perlin"
	"github.com/specialistvlad/terragridgo/modules/print"
	"github.com/specialistvlad/terragridgo/modules/recurve"
	"github.com/specialistvlad/terragridgo/modules/remap"
	"github.com/specialistvlad/terragridgo/modules/smoothcpulse"
	"github.com/specialistvlad/terragridgo/modules/thermal"
	"github.com/specialistvlad/terragridgo/modules/warp"
	"github.com/specialistvlad/terragridgo/modules/wavesine"
)

// coreModules is the definitive list of all modules that are compiled into
// the terragrid binary.
func coreModules(cfg *Config) []registry.Module {
	return []registry.Module{
		&perlin.Module{},
		&wavesine.Module{},
		&constant.Module{},
		&smoothcpulse.Module{},
		&recurve.Module{},
		&gradienttalus.Module{},
		&remap.Module{},
		&blend.Module{},
		&thermal.Module{},
		&warp.Module{},
		&colorize.Module{},
		&export.Module{Dir: cfg.ExportDir},
		&print.Module{},
	}
}
