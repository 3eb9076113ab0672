package pdata

// Version is the persistent player data version this schema describes.
const Version = 231

const (
	MapCount              = 25
	TitanCount            = 7
	GameModeCount         = 14
	WeaponsAbilitiesCount = 100
	PilotExecutionCount   = 13
	ChallengeCount        = 177
	DailyChallengeCount   = 4
)

func intT() TypeInfo   { return TypeInfo{Int: &TypeInfoPrimitive{}} }
func boolT() TypeInfo  { return TypeInfo{Bool: &TypeInfoPrimitive{}} }
func floatT() TypeInfo { return TypeInfo{Float: &TypeInfoPrimitive{}} }
func strT(n int) TypeInfo {
	return TypeInfo{String: &TypeInfoString{Length: n}}
}
func arrT(t TypeInfo, n int) TypeInfo {
	return TypeInfo{Array: &TypeInfoArray{Type: t, Length: n}}
}
func enumT(name string) TypeInfo {
	return TypeInfo{Enum: &TypeInfoEnum{Name: name}}
}
func structT(name string) TypeInfo {
	return TypeInfo{Struct: &TypeInfoStruct{Name: name}}
}
func fld(name string, t TypeInfo) Field {
	return Field{Name: name, Type: t}
}

// PlayerDataSchema is the layout of a version 231 persistent player data blob
// as written by the vanilla game.
var PlayerDataSchema = Schema{
	Root: []Field{
		fld("initializedVersion", intT()),
		fld("announcementVersionSeen", intT()),
		fld("xp", intT()),
		fld("previousXP", intT()),
		fld("credits", intT()),
		fld("xp_match", arrT(intT(), 20)),
		fld("xp_count", arrT(intT(), 20)),
		fld("netWorth", intT()),
		fld("matchWin", boolT()),
		fld("matchScoreEvent", boolT()),
		fld("matchComplete", boolT()),
		fld("matchSquadBonus", boolT()),
		fld("showGameSummary", boolT()),
		fld("regenShowNew", boolT()),
		fld("spawnAsTitan", boolT()),
		fld("haveSeenCustomCoop", boolT()),
		fld("factionGiftsFixed", boolT()),
		fld("isACheater", boolT()),
		fld("spendDoubleColiseumTickets", boolT()),
		fld("privateMatchState", intT()),
		fld("playlistShuffle_seed", intT()),
		fld("playlistShuffle_seedFlip", boolT()),
		fld("playlistShuffle_curIndex", intT()),
		fld("lastFDTitanRef", strT(16)),
		fld("lastFDDifficulty", intT()),
		fld("ultimateEdition", boolT()),
		fld("randomColiseumUnlocks", intT()),
		fld("randomPlayerLevelUnlocks", intT()),
		fld("randomTitanLevelUnlocks", arrT(intT(), TitanCount)),
		fld("randomWeaponLevelUnlocks", arrT(intT(), WeaponsAbilitiesCount)),
		fld("randomFactionLevelUnlocks", arrT(intT(), 7)),
		fld("doubleXP", intT()),
		fld("coliseumTickets", intT()),
		fld("coliseumWinStreak", intT()),
		fld("coliseumBestStreak", intT()),
		fld("coliseumTotalWins", intT()),
		fld("coliseumTotalLosses", intT()),
		fld("reventUnlocks", arrT(structT("recentUnlock"), 10)),
		fld("hasBeenIntroducedToComms", boolT()),
		fld("lastCommsUseDate", intT()),
		fld("numTimesUsedComms", intT()),
		fld("custom_emoji_initialized", boolT()),
		fld("custom_emoji", arrT(intT(), 4)),
		fld("burnmeterSlot", intT()),
		fld("pve", structT("pveData")),
		fld("factionChoice", enumT("faction")),
		fld("enemyFaction", enumT("faction")),
		fld("persistentRewards", arrT(boolT(), 32)),
		fld("consumableRewards", arrT(intT(), 32)),
		fld("pilotSpawnLoadout", structT("spawnLoadout")),
		fld("titanSpawnLoadout", structT("spawnLoadout")),
		fld("activePilotLoadout", structT("pilotLoadout")),
		fld("activeTitanLoadout", structT("titanLoadout")),
		fld("activeTitanLoadoutIndex", intT()),
		fld("pilotLoadouts", arrT(structT("pilotLoadout"), 10)),
		fld("titanLoadouts", arrT(structT("titanLoadout"), 10)),
		fld("pinTrackedEntitlements", arrT(boolT(), 9)),
		fld("newPinTrackedEntitlements", arrT(boolT(), 9)),
		fld("activeBCID", intT()),
		fld("activeCallingCardIndex", intT()),
		fld("activeCallsignIconIndex", intT()),
		fld("activeCallsignIconStyleIndex", intT()),
		fld("gen", intT()),
		fld("factionXP", arrT(intT(), 7)),
		fld("previousFactionXP", arrT(intT(), 7)),
		fld("titanXP", arrT(intT(), TitanCount)),
		fld("previousTitanXP", arrT(intT(), TitanCount)),
		fld("fdTitanXP", arrT(intT(), TitanCount)),
		fld("fdPreviousTitanXP", arrT(intT(), TitanCount)),
		fld("titanFDUnlockPoints", arrT(intT(), TitanCount)),
		fld("previousFDUnlockPoints", arrT(intT(), TitanCount)),
		fld("fd_match", arrT(intT(), 20)),
		fld("fd_count", arrT(intT(), 20)),
		fld("titanClassLockState", arrT(intT(), TitanCount)),
		fld("fdTutorialBits", intT()),
		fld("fdPlaylistBits", intT()),
		fld("gameStats", structT("gameStats")),
		fld("mapStats", arrT(structT("mapStats"), MapCount)),
		fld("timeStats", structT("hoursPlayed")),
		fld("distanceStats", structT("milesTraveled")),
		fld("weaponStats", arrT(structT("weaponStats"), WeaponsAbilitiesCount)),
		fld("weaponKillStats", arrT(structT("weaponKillStats"), WeaponsAbilitiesCount)),
		fld("killStats", structT("killStats")),
		fld("deathStats", structT("deathStats")),
		fld("miscStats", structT("miscStats")),
		fld("fdStats", structT("fdStats")),
		fld("titanStats", arrT(structT("titanStats"), TitanCount)),
		fld("kdratio_lifetime", floatT()),
		fld("kdratio_lifetime_pvp", floatT()),
		fld("kdratio_match", arrT(floatT(), 10)),
		fld("kdratiopvp_match", arrT(floatT(), 10)),
		fld("winStreak", intT()),
		fld("highestWinStreakEver", intT()),
		fld("winStreakIsDraws", boolT()),
		fld("winLossHistory", arrT(intT(), 10)),
		fld("winLossHistorySize", intT()),
		fld("mostProjectilesCollectedInVortex", intT()),
		fld("blackMarketItemsBought", intT()),
		fld("respawnKillInfected", boolT()),
		fld("pilotWeapons", arrT(structT("weaponMain"), 35)),
		fld("pilotOffhands", arrT(structT("weaponOffHand"), 35)),
		fld("titanWeapons", arrT(structT("weaponMain"), 15)),
		fld("titanOffhands", arrT(structT("weaponOffHand"), 30)),
		fld("titanChassis", arrT(structT("titanMain"), 12)),
		fld("hasSeenStore", boolT()),
		fld("newPilotSkins", arrT(intT(), 5)),
		fld("unlockedPilotSkins", arrT(intT(), 5)),
		fld("newPrimePilotSkins", intT()),
		fld("unlockedPrimePilotSkins", intT()),
		fld("newPilotWeapons", arrT(intT(), 2)),
		fld("unlockedPilotWeapons", arrT(intT(), 2)),
		fld("newPilotOffhands", arrT(intT(), 2)),
		fld("unlockedPilotOffhands", arrT(intT(), 2)),
		fld("newPilotPassives", intT()),
		fld("unlockedPilotPassives", intT()),
		fld("newTitanOffhands", arrT(intT(), 2)),
		fld("unlockedTitanOffhands", arrT(intT(), 2)),
		fld("newTitanPassives", intT()),
		fld("unlockedTitanPassives", intT()),
		fld("newTitanChassis", intT()),
		fld("unlockedTitanChassis", intT()),
		fld("newPrimeTitans", intT()),
		fld("unlockedPrimeTitans", intT()),
		fld("newPilotSuits", intT()),
		fld("unlockedPilotSuits", intT()),
		fld("newPilotExecutions", intT()),
		fld("unlockedPilotExecutions", intT()),
		fld("unlockedFeatures", arrT(intT(), 2)),
		fld("newFeatures", arrT(intT(), 2)),
		fld("unlockedBoosts", intT()),
		fld("newBoosts", intT()),
		fld("unlockedFactions", intT()),
		fld("newFactions", intT()),
		fld("unlockedCallingCards", arrT(intT(), 16)),
		fld("newCallingCards", arrT(intT(), 16)),
		fld("unlockedCallsignIcons", arrT(intT(), 7)),
		fld("newCallsignIcons", arrT(intT(), 7)),
		fld("unlockedCommsIcons", arrT(intT(), 5)),
		fld("newCommsIcons", arrT(intT(), 5)),
		fld("newTitanExecutions", intT()),
		fld("unlockedTitanExecutions", intT()),
		fld("challenges", arrT(structT("eChallenge"), ChallengeCount)),
		fld("dailychallenges", arrT(structT("eChallenge"), DailyChallengeCount)),
		fld("activeDailyChallenges", arrT(structT("activeDailyChallenge"), 9)),
		fld("trackedChallenges", arrT(intT(), 3)),
		fld("EOGTrackedChallenges", arrT(intT(), 3)),
		fld("trackedChallengeRefs", arrT(strT(64), 3)),
		fld("EOGTrackedChallengeRefs", arrT(strT(64), 3)),
		fld("dailyChallengeDayIndex", intT()),
		fld("newDailyChallenges", boolT()),
		fld("isPostGameScoreboardValid", boolT()),
		fld("postGameData", structT("postGameData")),
		fld("isFDPostGameScoreboardValid", boolT()),
		fld("postGameDataFD", structT("fdPostGameData")),
		fld("previousGooserProgress", intT()),
		fld("mapHistory", arrT(intT(), 24)),
		fld("modeHistory", arrT(intT(), 10)),
		fld("lastPlayList", strT(32)),
		fld("lastDailyMatchVictory", intT()),
		fld("lastTimePlayed", intT()),
		fld("lastTimeLoggedIn", intT()),
		fld("abandonCountForMode", arrT(intT(), GameModeCount)),
		fld("lastAbandonedMode", enumT("gameMode")),
		fld("lastAbandonTime", intT()),
		fld("ranked", structT("ranked")),
	},
	Enum: map[string][]string{
		"gameMode": {
			"tdm", "cp", "at", "ctf", "lts", "ps", "ffa", "coliseum",
			"aitdm", "speedball", "mfd", "ttdm", "fra", "fd",
		},
		"faction": {
			"faction_apex", "faction_64", "faction_vinson", "faction_marauder",
			"faction_aces", "faction_ares", "faction_marvin",
		},
		"pilotSuit": {
			"medium", "geist", "stalker", "light", "heavy", "grapple", "nomad",
		},
		"pilotRace": {
			"race_human_male", "race_human_female",
		},
		"pilotExecution": {
			"execution_neck_snap", "execution_face_stab", "execution_backshot",
			"execution_combo", "execution_knockout", "execution_telefrag",
			"execution_stim", "execution_grapple", "execution_pulseblade",
			"execution_random", "execution_cloak", "execution_holopilot",
			"execution_ampedwall",
		},
		"titanClass": {
			"ion", "scorch", "ronin", "tone", "northstar", "legion", "vanguard",
		},
		"titanExecution": {
			"execution_ion", "execution_ion_prime",
			"execution_tone", "execution_tone_prime",
			"execution_ronin", "execution_ronin_prime",
			"execution_northstar", "execution_northstar_prime",
			"execution_legion", "execution_legion_prime",
			"execution_vanguard",
			"execution_scorch", "execution_scorch_prime",
			"execution_random_0", "execution_random_1", "execution_random_2",
			"execution_random_3", "execution_random_4", "execution_random_5",
			"execution_random_6",
		},
		"titanIsPrime": {
			"titan_is_not_prime", "titan_is_prime",
		},
		"dailyChallenge": {
			"NULL",
			"ch_daily_xo16_pilot_kills",
			"ch_daily_emp_grenade_kills",
			"ch_daily_kills_nuclear_core",
		},
		"loadoutWeaponsAndAbilities": {
			"NULL",
			"melee_pilot_emptyhanded",
			"melee_pilot_sword",
			"melee_titan_sword",
			"melee_titan_sword_aoe",
			"mp_ability_cloak",
			"mp_ability_grapple",
			"mp_ability_heal",
			"mp_ability_holopilot",
			"mp_ability_phase_rewind",
			"mp_ability_shifter",
			"mp_titanability_ammo_swap",
			"mp_titanability_basic_block",
			"mp_titanability_gun_shield",
			"mp_titanability_hover",
			"mp_titanability_laser_trip",
			"mp_titanability_particle_wall",
			"mp_titanability_phase_dash",
			"mp_titanability_power_shot",
			"mp_titanability_slow_trap",
			"mp_titanability_smoke",
			"mp_titanability_sonar_pulse",
			"mp_titanability_tether_trap",
			"mp_titanability_rearm",
			"mp_titancore_flame_wave",
			"mp_titancore_flight_core",
			"mp_titancore_laser_cannon",
			"mp_titancore_salvo_core",
			"mp_titancore_shift_core",
			"mp_titancore_siege_mode",
			"mp_titancore_upgrade",
			"mp_titanweapon_40mm",
			"mp_titanweapon_arc_wave",
			"mp_titanweapon_flame_wall",
			"mp_titanweapon_heat_shield",
			"mp_titanweapon_homing_rockets",
			"mp_titanweapon_dumbfire_rockets",
			"mp_titanweapon_laser_lite",
			"mp_titanweapon_leadwall",
			"mp_titanweapon_meteor",
			"mp_titanweapon_particle_accelerator",
			"mp_titanweapon_predator_cannon",
			"mp_titanweapon_rocket_launcher",
			"mp_titanweapon_rocketeer_rocketstream",
			"mp_titanweapon_salvo_rockets",
			"mp_titanweapon_sniper",
			"mp_titanweapon_sticky_40mm",
			"mp_titanweapon_stun_laser",
			"mp_titanweapon_tracker_rockets",
			"mp_titanweapon_vortex_shield",
			"mp_titanweapon_vortex_shield_ion",
			"mp_titanweapon_xo16",
			"mp_titanweapon_xo16_shorty",
			"mp_titanweapon_xo16_vanguard",
			"mp_weapon_alternator_smg",
			"mp_weapon_arc_launcher",
			"mp_weapon_autopistol",
			"mp_weapon_car",
			"mp_weapon_defender",
			"mp_weapon_deployable_cover",
			"mp_weapon_dmr",
			"mp_weapon_doubletake",
			"mp_weapon_epg",
			"mp_weapon_esaw",
			"mp_weapon_frag_drone",
			"mp_weapon_frag_grenade",
			"mp_weapon_g2",
			"mp_weapon_grenade_electric_smoke",
			"mp_weapon_grenade_emp",
			"mp_weapon_grenade_gravity",
			"mp_weapon_grenade_sonar",
			"mp_weapon_hemlok",
			"mp_weapon_hemlok_smg",
			"mp_weapon_lmg",
			"mp_weapon_lstar",
			"mp_weapon_mastiff",
			"mp_weapon_mgl",
			"mp_weapon_pulse_lmg",
			"mp_weapon_r97",
			"mp_weapon_rocket_launcher",
			"mp_weapon_rspn101",
			"mp_weapon_rspn101_og",
			"mp_weapon_satchel",
			"mp_weapon_semipistol",
			"mp_weapon_shotgun",
			"mp_weapon_shotgun_pistol",
			"mp_weapon_smart_pistol",
			"mp_weapon_smr",
			"mp_weapon_sniper",
			"mp_weapon_softball",
			"mp_weapon_thermite_grenade",
			"mp_weapon_vinson",
			"mp_weapon_wingman",
			"mp_weapon_wingman_n",
			"melee_titan_punch_ion",
			"melee_titan_punch_legion",
			"melee_titan_punch_northstar",
			"melee_titan_punch_scorch",
			"melee_titan_punch_tone",
			"melee_titan_punch_vanguard",
		},
		"pilotMod": {
			"NULL",
			"aog",
			"automatic_fire",
			"burn_mod_rspn101",
			"burn_mod_g2",
			"burn_mod_hemlok",
			"burn_mod_vinson",
			"burn_mod_lstar",
			"burn_mod_car",
			"burn_mod_r97",
			"burn_mod_alternator_smg",
			"burn_mod_lmg",
			"burn_mod_esaw",
			"burn_mod_pulse_lmg",
			"burn_mod_sniper",
			"burn_mod_dmr",
			"burn_mod_doubletake",
			"burn_mod_mastiff",
			"burn_mod_shotgun",
			"burn_mod_softball",
			"burn_mod_shotgun_pistol",
			"burn_mod_autopistol",
			"burn_mod_wingman",
			"burn_mod_semipistol",
			"burn_mod_smart_pistol",
			"burn_mod_emp_grenade",
			"burn_mod_frag_grenade",
			"burn_mod_satchel",
			"burn_mod_proximity_mine",
			"burn_mod_grenade_electric_smoke",
			"burn_mod_grenade_gravity",
			"burn_mod_thermite_grenade",
			"burn_mod_defender",
			"burn_mod_rocket_launcher",
			"burn_mod_arc_launcher",
			"burn_mod_smr",
			"burn_mod_mgl",
			"burst",
			"enhanced_targeting",
			"extended_ammo",
			"fast_lock",
			"fast_reload",
			"guided_missile",
			"hcog",
			"high_density",
			"holosight",
			"iron_sights",
			"long_fuse",
			"powered_magnets",
			"scope_4x",
			"scope_6x",
			"scope_8x",
			"scope_10x",
			"scope_12x",
			"silencer",
			"sniper_assist",
			"stabilizer",
			"single_shot",
			"slammer",
			"stabilized_warhead",
			"tank_buster",
			"amped_wall",
			"short_shift",
			"burn_mod_epg",
			"ricochet",
			"ar_trajectory",
			"redline_sight",
			"threat_scope",
			"smart_lock",
			"pro_screen",
			"delayed_shot",
			"pas_run_and_gun",
			"tactical_cdr_on_kill",
			"pas_fast_ads",
			"pas_fast_swap",
			"pas_fast_reload",
			"jump_kit",
			"quick_charge",
			"rocket_arena",
		},
		"pilotPassive": {
			"NULL",
			"pas_stealth_movement",
			"pas_ordnance_pack",
			"pas_power_cell",
			"pas_wallhang",
			"pas_fast_health_regen",
			"pas_minimap_ai",
			"pas_longer_bubble",
			"pas_run_and_gun",
			"pas_dead_mans_trigger",
			"pas_wall_runner",
			"pas_fast_hack",
			"pas_cloaked_wallrun",
			"pas_cloaked_wallhang",
			"pas_smoke_sight",
			"pas_fast_embark",
			"pas_cdr_on_kill",
			"pas_at_hunter",
			"pas_ordnance_beam",
			"pas_fast_rodeo",
			"pas_phase_eject",
			"pas_ads_hover",
			"pas_enemy_death_icons",
			"pas_off_the_grid",
		},
		"titanMod": {
			"NULL",
			"accelerator",
			"afterburners",
			"arc_triple_threat",
			"burn_mod_titan_40mm",
			"burn_mod_titan_arc_cannon",
			"burn_mod_titan_sniper",
			"burn_mod_titan_triple_threat",
			"burn_mod_titan_xo16",
			"burn_mod_titan_dumbfire_rockets",
			"burn_mod_titan_homing_rockets",
			"burn_mod_titan_salvo_rockets",
			"burn_mod_titan_shoulder_rockets",
			"burn_mod_titan_vortex_shield",
			"burn_mod_titan_smoke",
			"burn_mod_titan_particle_wall",
			"burst",
			"capacitor",
			"extended_ammo",
			"fast_lock",
			"fast_reload",
			"instant_shot",
			"overcharge",
			"quick_shot",
			"rapid_fire_missiles",
			"stryder_sniper",
		},
		"titanPassive": {
			"NULL",
			"pas_enhanced_titan_ai",
			"pas_auto_eject",
			"pas_dash_recharge",
			"pas_defensive_core",
			"pas_shield_regen",
			"pas_assault_reactor",
			"pas_hyper_core",
			"pas_anti_rodeo",
			"pas_build_up_nuclear_core",
			"pas_offensive_autoload",
			"pas_offensive_hitnrun",
			"pas_offensive_regen",
			"pas_defensive_tacload",
			"pas_defensive_quickdash",
			"pas_defensive_domeshield",
			"pas_mobility_dash_capacity",
			"pas_warpfall",
			"pas_bubbleshield",
			"pas_ronin_weapon",
			"pas_northstar_weapon",
			"pas_ion_weapon",
			"pas_tone_weapon",
			"pas_scorch_weapon",
			"pas_legion_weapon",
			"pas_ion_tripwire",
			"pas_ion_vortex",
			"pas_ion_lasercannon",
			"pas_tone_rockets",
			"pas_tone_sonar",
			"pas_tone_wall",
			"pas_ronin_arcwave",
			"pas_ronin_phase",
			"pas_ronin_swordcore",
			"pas_northstar_cluster",
			"pas_northstar_trap",
			"pas_northstar_flightcore",
			"pas_scorch_firewall",
			"pas_scorch_shield",
			"pas_scorch_selfdmg",
			"pas_legion_spinup",
			"pas_legion_gunshield",
			"pas_legion_smartcore",
			"pas_ion_weapon_ads",
			"pas_tone_burst",
			"pas_legion_chargeshot",
			"pas_ronin_autoshift",
			"pas_northstar_optics",
			"pas_scorch_flamecore",
			"pas_vanguard_coremeter",
			"pas_vanguard_shield",
			"pas_vanguard_rearm",
			"pas_vanguard_doom",
			"pas_vanguard_core1",
			"pas_vanguard_core2",
			"pas_vanguard_core3",
			"pas_vanguard_core4",
			"pas_vanguard_core5",
			"pas_vanguard_core6",
			"pas_vanguard_core7",
			"pas_vanguard_core8",
			"pas_vanguard_core9",
		},
	},
	Struct: map[string][]Field{
		"spawnLoadout": {
			fld("index", intT()),
		},
		"pilotLoadout": {
			fld("name", strT(42)),
			fld("suit", enumT("pilotSuit")),
			fld("race", enumT("pilotRace")),
			fld("execution", enumT("pilotExecution")),
			fld("primary", enumT("loadoutWeaponsAndAbilities")),
			fld("primaryAttachment", enumT("pilotMod")),
			fld("primaryMod1", enumT("pilotMod")),
			fld("primaryMod2", enumT("pilotMod")),
			fld("primaryMod3", enumT("pilotMod")),
			fld("secondary", enumT("loadoutWeaponsAndAbilities")),
			fld("secondaryMod1", enumT("pilotMod")),
			fld("secondaryMod2", enumT("pilotMod")),
			fld("secondaryMod3", enumT("pilotMod")),
			fld("weapon3", enumT("loadoutWeaponsAndAbilities")),
			fld("weapon3Mod1", enumT("pilotMod")),
			fld("weapon3Mod2", enumT("pilotMod")),
			fld("weapon3Mod3", enumT("pilotMod")),
			fld("ordnance", enumT("loadoutWeaponsAndAbilities")),
			fld("passive1", enumT("pilotPassive")),
			fld("passive2", enumT("pilotPassive")),
			fld("skinIndex", intT()),
			fld("camoIndex", intT()),
			fld("primarySkinIndex", intT()),
			fld("primaryCamoIndex", intT()),
			fld("secondarySkinIndex", intT()),
			fld("secondaryCamoIndex", intT()),
			fld("weapon3SkinIndex", intT()),
			fld("weapon3CamoIndex", intT()),
		},
		"titanLoadout": {
			fld("name", strT(42)),
			fld("titanClass", enumT("titanClass")),
			fld("primaryMod", enumT("titanMod")),
			fld("special", enumT("loadoutWeaponsAndAbilities")),
			fld("antirodeo", enumT("loadoutWeaponsAndAbilities")),
			fld("passive1", enumT("titanPassive")),
			fld("passive2", enumT("titanPassive")),
			fld("passive3", enumT("titanPassive")),
			fld("passive4", enumT("titanPassive")),
			fld("passive5", enumT("titanPassive")),
			fld("passive6", enumT("titanPassive")),
			fld("titanExecution", enumT("titanExecution")),
			fld("skinIndex", intT()),
			fld("camoIndex", intT()),
			fld("decalIndex", intT()),
			fld("primarySkinIndex", intT()),
			fld("primaryCamoIndex", intT()),
			fld("isPrime", enumT("titanIsPrime")),
			fld("primeSkinIndex", intT()),
			fld("primeCamoIndex", intT()),
			fld("primeDecalIndex", intT()),
			fld("showArmBadge", intT()),
		},
		"recentUnlock": {
			fld("refGuid", intT()),
			fld("parentRefGuid", intT()),
			fld("count", intT()),
		},
		"pveData": {
			fld("version", intT()),
			fld("currency", intT()),
			fld("currencyInLatestMatch", intT()),
			fld("tacticalUnlocks", arrT(intT(), 6)),
			fld("feathersForMap", arrT(intT(), MapCount)),
		},
		"mapStats": {
			fld("gamesJoined", arrT(intT(), GameModeCount)),
			fld("gamesCompleted", arrT(intT(), GameModeCount)),
			fld("gamesWon", arrT(intT(), GameModeCount)),
			fld("gamesLost", arrT(intT(), GameModeCount)),
			fld("topPlayerOnTeam", arrT(intT(), GameModeCount)),
			fld("top3OnTeam", arrT(intT(), GameModeCount)),
			fld("hoursPlayed", arrT(floatT(), GameModeCount)),
			fld("timesScored100AttritionPoints_byMap", intT()),
			fld("winsByDifficulty", arrT(intT(), 5)),
			fld("matchesByDifficulty", arrT(intT(), 5)),
			fld("perfectMatchesByDifficulty", arrT(intT(), 5)),
		},
		"gameStats": {
			fld("modesPlayed", arrT(intT(), GameModeCount)),
			fld("previousModesPlayed", arrT(intT(), GameModeCount)),
			fld("modesWon", arrT(intT(), GameModeCount)),
			fld("mvp_total", intT()),
			fld("gamesCompletedTotal", intT()),
			fld("gamesWonTotal", intT()),
			fld("gamesWonAsIMC", intT()),
			fld("gamesWonAsMilitia", intT()),
			fld("gamesCompletedAsIMC", intT()),
			fld("gamesCompletedAsMilitia", intT()),
			fld("pvpKills", arrT(intT(), GameModeCount)),
			fld("timesKillDeathRatio2to1", arrT(intT(), GameModeCount)),
			fld("timesKillDeathRatio2to1_pvp", arrT(intT(), GameModeCount)),
			fld("timesScored100AttritionPoints_total", intT()),
		},
		"hoursPlayed": {
			fld("total", floatT()),
			fld("asTitan", arrT(floatT(), TitanCount)),
			fld("asPilot", floatT()),
			fld("asTitanTotal", floatT()),
			fld("dead", floatT()),
			fld("wallhanging", floatT()),
			fld("wallrunning", floatT()),
			fld("inAir", floatT()),
		},
		"milesTraveled": {
			fld("total", floatT()),
			fld("asTitan", arrT(floatT(), TitanCount)),
			fld("asPilot", floatT()),
			fld("asTitanTotal", floatT()),
			fld("wallrunning", floatT()),
			fld("inAir", floatT()),
			fld("ziplining", floatT()),
			fld("onFriendlyTitan", floatT()),
			fld("onEnemyTitan", floatT()),
		},
		"weaponStats": {
			fld("hoursUsed", floatT()),
			fld("hoursEquipped", floatT()),
			fld("shotsFired", intT()),
			fld("shotsHit", intT()),
			fld("headshots", intT()),
			fld("critHits", intT()),
			fld("titanDamage", intT()),
		},
		"weaponKillStats": {
			fld("total", intT()),
			fld("pilots", intT()),
			fld("ejecting_pilots", intT()),
			fld("spectres", intT()),
			fld("marvins", intT()),
			fld("grunts", intT()),
			fld("ai", intT()),
			fld("titansTotal", intT()),
			fld("titans", arrT(intT(), TitanCount)),
			fld("npcTitans", arrT(intT(), TitanCount)),
			fld("assistsTotal", intT()),
			fld("killingSprees", intT()),
		},
		"killStats": {
			fld("total", intT()),
			fld("totalWhileUsingBurnCard", intT()),
			fld("titansWhileTitanBCActive", intT()),
			fld("totalPVP", intT()),
			fld("pilots", intT()),
			fld("spectres", intT()),
			fld("marvins", intT()),
			fld("grunts", intT()),
			fld("totalTitans", intT()),
			fld("totalTitansWhileDoomed", intT()),
			fld("totalPilots", intT()),
			fld("totalNPC", intT()),
			fld("asPilot", intT()),
			fld("asTitan", arrT(intT(), TitanCount)),
			fld("firstStrikes", intT()),
			fld("ejectingPilots", intT()),
			fld("whileEjecting", intT()),
			fld("cloakedPilots", intT()),
			fld("whileCloaked", intT()),
			fld("wallrunningPilots", intT()),
			fld("whileWallrunning", intT()),
			fld("wallhangingPilots", intT()),
			fld("whileWallhanging", intT()),
			fld("pilotExecution", intT()),
			fld("pilotExecutePilot", intT()),
			fld("pilotExecutePilotByType", arrT(intT(), PilotExecutionCount)),
			fld("pilotKickMelee", intT()),
			fld("pilotKickMeleePilot", intT()),
			fld("titanMelee", intT()),
			fld("titanMeleePilot", intT()),
			fld("titanStepCrush", intT()),
			fld("titanStepCrushPilot", intT()),
			fld("titanExocutionIon", intT()),
			fld("titanExocutionScorch", intT()),
			fld("titanExocutionNorthstar", intT()),
			fld("titanExocutionRonin", intT()),
			fld("titanExocutionTone", intT()),
			fld("titanExocutionLegion", intT()),
			fld("titanExocutionVanguard", intT()),
			fld("titanFallKill", intT()),
			fld("petTitanKillsFollowMode", intT()),
			fld("petTitanKillsGuardMode", intT()),
			fld("rodeo_total", intT()),
			fld("rodeo_stryder", intT()),
			fld("rodeo_buddy", intT()),
			fld("rodeo_atlas", intT()),
			fld("rodeo_ogre", intT()),
			fld("pilot_headshots_total", intT()),
			fld("evacShips", intT()),
			fld("flyers", intT()),
			fld("nuclearCore", intT()),
			fld("evacuatingEnemies", intT()),
			fld("exportTrapKills", intT()),
			fld("coopChallenge_NukeTitan_Kills", intT()),
			fld("coopChallenge_MortarTitan_Kills", intT()),
			fld("coopChallenge_EmpTitan_Kills", intT()),
			fld("coopChallenge_BubbleShieldGrunt_Kills", intT()),
			fld("coopChallenge_CloakDrone_Kills", intT()),
			fld("coopChallenge_Dropship_Kills", intT()),
			fld("coopChallenge_SuicideSpectre_Kills", intT()),
			fld("coopChallenge_Turret_Kills", intT()),
			fld("coopChallenge_Sniper_Kills", intT()),
			fld("ampedVortexKills", intT()),
			fld("meleeWhileCloaked", intT()),
			fld("pilotKillsWhileUsingActiveRadarPulse", intT()),
			fld("titanKillsAsPilot", intT()),
			fld("pilotKillsWhileStimActive", intT()),
			fld("pilotKillsAsTitan", intT()),
			fld("totalAssists", intT()),
			fld("killingSpreeds", arrT(intT(), TitanCount)),
			fld("pilotKillsAsPilot", intT()),
			fld("titanKillsAsTitan", intT()),
			fld("telefragKils", intT()),
			fld("grappleKills", intT()),
			fld("throughAWallKills", intT()),
			fld("distractedKills", intT()),
			fld("pilotExecutePilotWhileCloaked", intT()),
			fld("pilotKillsWithHoloPilotActive", intT()),
			fld("pilotKillsWithAmpedWallActive", intT()),
		},
		"deathStats": {
			fld("total", intT()),
			fld("totalPVP", intT()),
			fld("asPilot", intT()),
			fld("asTitan", arrT(intT(), TitanCount)),
			fld("byPilots", intT()),
			fld("bySpectres", intT()),
			fld("byGrunts", intT()),
			fld("byTitans", arrT(intT(), TitanCount)),
			fld("byNPCTitans", arrT(intT(), TitanCount)),
			fld("suicides", intT()),
			fld("whileEjecting", intT()),
		},
		"miscStats": {
			fld("titanFalls", intT()),
			fld("titanFallsFirst", intT()),
			fld("titanEmbarks", intT()),
			fld("rodeos", intT()),
			fld("rodeosFromEject", intT()),
			fld("timesEjected", intT()),
			fld("timesEjectedNuclear", intT()),
			fld("burnCardsEarned", intT()),
			fld("burnCardsSpent", intT()),
			fld("boostsActivated", intT()),
			fld("spectreLeeches", intT()),
			fld("spectreLeechesByMap", arrT(intT(), MapCount)),
			fld("evacsAttempted", intT()),
			fld("evacsSurvived", intT()),
			fld("flagsCaptured", intT()),
			fld("flagsReturned", intT()),
			fld("arcCannonMultiKills", intT()),
			fld("gruntsConscripted", intT()),
			fld("hardpointsCaptured", intT()),
			fld("challengeTiersCompleted", intT()),
			fld("challengesCompleted", intT()),
			fld("dailyChallengesCompleted", intT()),
			fld("timesLastTitanRemaining", intT()),
			fld("killingSprees", intT()),
			fld("coopChallengesCompleted", intT()),
			fld("forgedCertificationsUsed", intT()),
			fld("regenForgedCertificationsUsed", intT()),
		},
		"fdStats": {
			fld("arcMinesPlaced", intT()),
			fld("turretsPlaced", intT()),
			fld("rodeos", intT()),
			fld("rodeoNukes", intT()),
			fld("arcMineZaps", intT()),
			fld("turretKills", intT()),
			fld("harvesterBoosts", intT()),
			fld("wavesComplete", intT()),
			fld("easyWins", intT()),
			fld("normalWins", intT()),
			fld("hardWins", intT()),
			fld("masterWins", intT()),
			fld("insaneWins", intT()),
			fld("highestTitanFDLevel", intT()),
		},
		"titanStats": {
			fld("pilots", intT()),
			fld("titansTotal", intT()),
			fld("ejections", intT()),
			fld("titansWhileDoomed", intT()),
			fld("titanDamage", intT()),
			fld("titansAsPrime", intT()),
			fld("pilotsAsPrime", intT()),
			fld("executionsAsPrime", intT()),
			fld("coresEarned", intT()),
			fld("matchesByDifficulty", arrT(intT(), 5)),
			fld("perfectMatchesByDifficulty", arrT(intT(), 5)),
		},
		"weaponMain": {
			fld("weaponStats", structT("weaponStats")),
			fld("weaponKillStats", structT("weaponKillStats")),
			fld("weaponXP", intT()),
			fld("previousWeaponXP", intT()),
			fld("proScreenKills", intT()),
			fld("previousProScreenKills", intT()),
			fld("newMods", intT()),
			fld("unlockedMods", intT()),
			fld("newWeaponSkins", arrT(intT(), 5)),
			fld("unlockedWeaponSkins", arrT(intT(), 5)),
			fld("newPrimeWeaponSkins", arrT(intT(), 6)),
			fld("unlockedPrimeWeaponSkins", arrT(intT(), 6)),
			fld("newFeatures", intT()),
			fld("unlockedFeatures", intT()),
		},
		"weaponOffHand": {
			fld("weaponStats", structT("weaponStats")),
			fld("weaponKillStats", structT("weaponKillStats")),
		},
		"titanMain": {
			fld("newPassives", arrT(intT(), 2)),
			fld("unlockedPassives", arrT(intT(), 2)),
			fld("newSkins", arrT(intT(), 5)),
			fld("unlockedSkins", arrT(intT(), 5)),
			fld("newPrimeSkins", arrT(intT(), 2)),
			fld("unlockedPrimeSkins", arrT(intT(), 2)),
			fld("newWeaponSkins", arrT(intT(), 5)),
			fld("unlockedWeaponSkins", arrT(intT(), 5)),
			fld("newPrimeWeaponSkins", intT()),
			fld("unlockedPrimeWeaponSkins", intT()),
			fld("newTitanDecals", arrT(intT(), 3)),
			fld("unlockedTitanDecals", arrT(intT(), 3)),
			fld("newPrimeTitanDecals", intT()),
			fld("unlockedPrimeTitanDecals", intT()),
			fld("unlockedFDUpgrades", arrT(intT(), 2)),
			fld("newFDUpgrades", arrT(intT(), 2)),
		},
		"eChallenge": {
			fld("progress", floatT()),
			fld("previousProgress", floatT()),
		},
		"activeDailyChallenge": {
			fld("reference", enumT("dailyChallenge")),
			fld("day", intT()),
		},
		"postGamePlayer": {
			fld("name", strT(32)),
			fld("xuid", strT(22)),
			fld("level", intT()),
			fld("gen", intT()),
			fld("team", intT()),
			fld("scores", arrT(intT(), 4)),
			fld("playingRanked", boolT()),
			fld("rank", intT()),
			fld("callsignIconIndex", intT()),
			fld("matchPerformance", floatT()),
		},
		"postGameData": {
			fld("gameMode", intT()),
			fld("map", intT()),
			fld("myXuid", strT(22)),
			fld("myTeam", intT()),
			fld("maxTeamSize", intT()),
			fld("factionIMC", enumT("faction")),
			fld("factionMCOR", enumT("faction")),
			fld("scoreIMC", intT()),
			fld("scoreMCOR", intT()),
			fld("teams", boolT()),
			fld("privateMatch", boolT()),
			fld("ranked", boolT()),
			fld("hadMatchLossProtection", boolT()),
			fld("challengeUnlocks", arrT(structT("recentUnlock"), 6)),
			fld("players", arrT(structT("postGamePlayer"), 16)),
		},
		"fdPostGamePlayer": {
			fld("name", strT(32)),
			fld("xuid", strT(22)),
			fld("awardId", intT()),
			fld("awardValue", floatT()),
			fld("suitIndex", intT()),
		},
		"fdPostGameData": {
			fld("gameMode", intT()),
			fld("map", intT()),
			fld("myIndex", intT()),
			fld("numPlayers", intT()),
			fld("players", arrT(structT("fdPostGamePlayer"), 4)),
		},
		"ranked": {
			fld("isPlayingRanked", boolT()),
			fld("currentRank", intT()),
		},
	},
}
