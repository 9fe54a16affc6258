package template

// Region is a built-in body-region template.
type Region struct {
	Key         string
	Label       string
	Description string
	// Categories are the objective table groups the model is asked to fill.
	Categories []string
	// SpecialTests are named in the prompt so the model files them correctly.
	SpecialTests []string
	// Keywords drive SuggestTemplate.
	Keywords []string
}

const GeneralKey = "general"

// regions is ordered; SuggestTemplate breaks ties by this order.
var regions = []Region{
	{
		Key:          "knee",
		Label:        "Knee",
		Description:  "Knee evaluation: ROM, ligament and meniscal testing.",
		Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Palpation", "Gait"},
		SpecialTests: []string{"Lachman", "Anterior Drawer", "Posterior Drawer", "McMurray", "Thessaly", "Valgus Stress", "Varus Stress", "Patellar Apprehension"},
		Keywords:     []string{"knee", "patella", "patellar", "meniscus", "meniscal", "mcmurray", "lachman", "acl", "mcl", "pcl", "lcl", "thessaly", "medial joint line", "tibial", "quadriceps", "quad"},
	},
	{
		Key:          "shoulder",
		Label:        "Shoulder",
		Description:  "Shoulder evaluation: rotator cuff, impingement and instability.",
		Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Palpation", "Posture"},
		SpecialTests: []string{"Hawkins-Kennedy", "Neer", "Empty Can", "Drop Arm", "Apprehension", "Speed's", "O'Brien's"},
		Keywords:     []string{"shoulder", "rotator cuff", "supraspinatus", "infraspinatus", "impingement", "hawkins", "neer", "empty can", "labrum", "labral", "glenohumeral", "scapula", "scapular", "deltoid", "frozen shoulder"},
	},
	{
		Key:          "hip",
		Label:        "Hip",
		Description:  "Hip evaluation: ROM, FABER/FADIR and gluteal strength.",
		Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Palpation", "Gait"},
		SpecialTests: []string{"FABER", "FADIR", "Thomas", "Ober", "Trendelenburg", "Log Roll"},
		Keywords:     []string{"hip", "groin", "faber", "fadir", "trendelenburg", "gluteus", "glute", "greater trochanter", "trochanteric", "iliopsoas", "piriformis", "acetabular", "thomas test", "ober"},
	},
	{
		Key:          "lumbar",
		Label:        "Lumbar Spine",
		Description:  "Low back evaluation: neuro screen, SLR and movement testing.",
		Categories:   []string{"Range of Motion", "Neurological Screen", "Special Tests", "Palpation", "Posture"},
		SpecialTests: []string{"Straight Leg Raise", "Slump", "Prone Instability", "Quadrant", "Repeated Movements"},
		Keywords:     []string{"lumbar", "low back", "lower back", "sciatica", "sciatic", "straight leg raise", "slr", "slump", "l4", "l5", "s1", "disc", "herniation", "lumbosacral", "sacroiliac", "si joint"},
	},
	{
		Key:          "cervical",
		Label:        "Cervical Spine",
		Description:  "Neck evaluation: ROM, radicular screen and headache patterns.",
		Categories:   []string{"Range of Motion", "Neurological Screen", "Special Tests", "Palpation", "Posture"},
		SpecialTests: []string{"Spurling", "Distraction", "ULTT", "Cervical Flexion-Rotation", "Deep Neck Flexor Endurance"},
		Keywords:     []string{"neck", "cervical", "spurling", "whiplash", "c5", "c6", "c7", "radiculopathy", "cervicogenic", "headache", "upper trapezius", "ultt"},
	},
	{
		Key:          "thoracic",
		Label:        "Thoracic Spine",
		Description:  "Mid back evaluation: mobility, rib and postural findings.",
		Categories:   []string{"Range of Motion", "Mobility", "Palpation", "Posture"},
		SpecialTests: []string{"Rib Spring", "Thoracic Rotation", "Slump"},
		Keywords:     []string{"thoracic", "mid back", "upper back", "rib", "ribs", "kyphosis", "kyphotic", "t4", "t5", "t6", "rhomboid"},
	},
	{
		Key:          "ankle",
		Label:        "Ankle & Foot",
		Description:  "Ankle and foot evaluation: ligament stability and balance.",
		Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Balance", "Gait"},
		SpecialTests: []string{"Anterior Drawer (Ankle)", "Talar Tilt", "Thompson", "Squeeze", "Windlass", "Single Leg Balance"},
		Keywords:     []string{"ankle", "foot", "achilles", "plantar", "fasciitis", "talar", "sprain", "inversion", "eversion", "dorsiflexion", "plantarflexion", "heel", "calf"},
	},
	{
		Key:          "elbow",
		Label:        "Elbow",
		Description:  "Elbow evaluation: epicondylalgia and ligament testing.",
		Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Palpation"},
		SpecialTests: []string{"Cozen", "Mill", "Maudsley", "Golfer's Elbow", "Valgus Stress (Elbow)"},
		Keywords:     []string{"elbow", "epicondyle", "epicondylitis", "epicondylalgia", "tennis elbow", "golfer", "cozen", "olecranon", "cubital"},
	},
	{
		Key:          "wrist_hand",
		Label:        "Wrist & Hand",
		Description:  "Wrist and hand evaluation: grip, nerve and tendon testing.",
		Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Sensation"},
		SpecialTests: []string{"Phalen", "Tinel", "Finkelstein", "Grip Dynamometry", "Watson"},
		Keywords:     []string{"wrist", "hand", "finger", "thumb", "carpal tunnel", "phalen", "tinel", "finkelstein", "de quervain", "grip", "scaphoid"},
	},
}

var general = Region{
	Key:          GeneralKey,
	Label:        "General",
	Description:  "General musculoskeletal evaluation for any region.",
	Categories:   []string{"Range of Motion", "Strength", "Special Tests", "Palpation", "Functional Assessment"},
	SpecialTests: nil,
}

// Info describes a built-in template for listing.
type Info struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// BuiltIns lists the built-in templates, regions first and general last.
func BuiltIns() []Info {
	out := make([]Info, 0, len(regions)+1)
	for _, r := range regions {
		out = append(out, Info{Key: r.Key, Label: r.Label, Description: r.Description})
	}
	return append(out, Info{Key: general.Key, Label: general.Label, Description: general.Description})
}

func lookupRegion(key string) (Region, bool) {
	if key == GeneralKey {
		return general, true
	}
	for _, r := range regions {
		if r.Key == key {
			return r, true
		}
	}
	return Region{}, false
}
