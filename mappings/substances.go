package mappings

// curatedSubstances lists common ATC level 5 substance codes from the WHO
// ATC index. RxClass only serves levels 1-4, so substance-level entries have
// to come from elsewhere; this list covers the most prescribed drugs.
var curatedSubstances = []struct {
	Code string
	Name string
}{
	{"C10AA01", "simvastatin"},
	{"C10AA03", "pravastatin"},
	{"C10AA04", "fluvastatin"},
	{"C10AA05", "atorvastatin"},
	{"C10AA07", "rosuvastatin"},
	{"C10AA08", "pitavastatin"},
	{"N02BE01", "paracetamol"},
	{"N02BA01", "acetylsalicylic acid"},
	{"J01CA04", "amoxicillin"},
	{"A02BC01", "omeprazole"},
	{"A02BC02", "pantoprazole"},
	{"A02BC03", "lansoprazole"},
	{"A02BC04", "rabeprazole"},
	{"A02BC05", "esomeprazole"},
	{"C09AA01", "captopril"},
	{"C09AA02", "enalapril"},
	{"C09AA03", "lisinopril"},
	{"C09AA05", "ramipril"},
	{"N06AB03", "fluoxetine"},
	{"N06AB04", "citalopram"},
	{"N06AB05", "paroxetine"},
	{"N06AB06", "sertraline"},
	{"N06AB10", "escitalopram"},
	{"C07AB02", "metoprolol"},
	{"C07AB03", "atenolol"},
	{"C07AB07", "bisoprolol"},
	{"C08CA01", "amlodipine"},
	{"C08CA02", "felodipine"},
	{"C08CA05", "nifedipine"},
	{"A10BA02", "metformin"},
	{"N05AH03", "olanzapine"},
	{"N05AH04", "quetiapine"},
	{"R03AC02", "salbutamol"},
	{"R06AE07", "cetirizine"},
	{"M01AE01", "ibuprofen"},
	{"M01AE02", "naproxen"},
}
