package universalis

// World identifies one game server and the data center it belongs to.
type World struct {
	ID         int
	Name       string
	DataCenter string
}

// naWorlds maps the North America region world IDs. The bot only queries a
// fixed geographic region, so the table is static game data rather than a
// catalog lookup.
var naWorlds = map[int]World{
	// Aether
	73: {73, "Adamantoise", "Aether"},
	79: {79, "Cactuar", "Aether"},
	54: {54, "Faerie", "Aether"},
	63: {63, "Gilgamesh", "Aether"},
	40: {40, "Jenova", "Aether"},
	65: {65, "Midgardsormr", "Aether"},
	99: {99, "Sargatanas", "Aether"},
	57: {57, "Siren", "Aether"},
	// Primal
	78: {78, "Behemoth", "Primal"},
	93: {93, "Excalibur", "Primal"},
	53: {53, "Exodus", "Primal"},
	35: {35, "Famfrit", "Primal"},
	95: {95, "Hyperion", "Primal"},
	55: {55, "Lamia", "Primal"},
	64: {64, "Leviathan", "Primal"},
	77: {77, "Ultros", "Primal"},
	// Crystal
	91: {91, "Balmung", "Crystal"},
	34: {34, "Brynhildr", "Crystal"},
	74: {74, "Coeurl", "Crystal"},
	62: {62, "Diabolos", "Crystal"},
	81: {81, "Goblin", "Crystal"},
	75: {75, "Malboro", "Crystal"},
	37: {37, "Mateus", "Crystal"},
	41: {41, "Zalera", "Crystal"},
	// Dynamis
	408: {408, "Cuchulainn", "Dynamis"},
	411: {411, "Golem", "Dynamis"},
	406: {406, "Halicarnassus", "Dynamis"},
	409: {409, "Kraken", "Dynamis"},
	407: {407, "Maduin", "Dynamis"},
	404: {404, "Marilith", "Dynamis"},
	410: {410, "Rafflesia", "Dynamis"},
	405: {405, "Seraph", "Dynamis"},
}

// WorldByID resolves a North America world ID.
func WorldByID(id int) (World, bool) {
	w, ok := naWorlds[id]
	return w, ok
}
