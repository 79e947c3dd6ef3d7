package testutil

// Fixtures содержит эталонные zone-файлы для избежания дублирования в тестах.
var Fixtures = struct {
	// Messy uses every tolerated irregularity: CRLF, mixed-case sentinels,
	// blank lines, unordered corners, unpadded fields and an extra field.
	Messy string
	// Canonical is what the writer produces for Messy.
	Canonical string

	// Vegas is a three-zone file with fractional coordinates and a parent chain.
	Vegas string
	// VegasCanonical is Vegas after a write.
	VegasCanonical string
}{
	Messy: "ZONE\r\n" +
		"Zone1 , ped, 10, 10, 10, 0, 0, 0, 1, none\r\n" +
		"\r\n" +
		"Zone2,nav,1.23456,2,3,4,5,6,0,Zone1,extra\r\n" +
		"End\r\n",
	Canonical: "zone\n" +
		"Zone1, ped, 0.000, 0.000, 0.000, 10.000, 10.000, 10.000, 1, none\n" +
		"Zone2, nav, 1.235, 2.000, 3.000, 4.000, 5.000, 6.000, 0, Zone1\n" +
		"end\n",

	Vegas: "zone\n" +
		"Strip, ped, 2000.5, 900, 0, 2200, 1800.25, 50, 1, none\n" +
		"Airport, nav, 1300, 1100, -10, 1700, 1700, 80, 0, none\n" +
		"Gate, info, 1400, 1200, 0, 1450, 1250, 20, 2, Airport\n" +
		"end\n",
	VegasCanonical: "zone\n" +
		"Strip, ped, 2000.500, 900.000, 0.000, 2200.000, 1800.250, 50.000, 1, none\n" +
		"Airport, nav, 1300.000, 1100.000, -10.000, 1700.000, 1700.000, 80.000, 0, none\n" +
		"Gate, info, 1400.000, 1200.000, 0.000, 1450.000, 1250.000, 20.000, 2, Airport\n" +
		"end\n",
}
