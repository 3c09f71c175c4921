package normalization

import "regexp"

// Vocabulary tables for supplier name cleaning and entity classification.
// These are immutable configuration data loaded once at process start;
// nothing in the pipeline mutates them at runtime.

// legalSuffixes are business-entity and org-type words stripped from the
// end of a name during comparison cleaning. Covers multiple jurisdictions.
var legalSuffixes = makeSet(
	"inc", "incorporated", "corp", "corporation", "co", "company", "ltd", "limited",
	"llc", "llp", "plc", "gmbh", "ag", "kg", "ug", "sa", "sarl", "sas", "srl",
	"eurl", "bv", "nv", "pty", "pvt", "ab", "oy", "as", "aps", "sp", "sro", "doo",
	"kft", "zrt", "nyrt", "mbh", "ev", "eg", "ohg", "kgaa", "se", "scrl", "sprl",
	"cvba", "vof", "bvba", "snc", "sca", "scs", "spol", "ood", "ad", "ead", "eood",
	"jsc", "ojsc", "cjsc", "pjsc", "zao", "ooo", "oao", "pao", "tov", "pp",
	"bhd", "sdn", "pt", "tbk", "cv", "firma", "gruppen", "group", "holding",
	"holdings", "international", "intl", "enterprises", "industries", "services",
	"solutions", "technologies", "technology", "tech", "systems", "global",
	"worldwide", "associates", "partners", "consulting", "consultants",
	"de", "del", "la", "el", "les", "los", "das", "der", "die", "het", "van", "von",
)

// stripPrefixWords are filler words removed from the beginning of a name.
var stripPrefixWords = makeSet(
	"the", "a", "an", "mr", "mrs", "ms", "dr", "prof", "st", "saint",
)

// strongLegalSuffixes is the subset of legal suffixes that definitively
// marks a name as an organization during entity classification.
var strongLegalSuffixes = makeSet(
	"inc", "incorporated", "corp", "corporation", "llc", "llp", "ltd",
	"limited", "plc", "gmbh", "ag", "sa", "sarl", "sas", "srl", "bv", "nv",
	"pty", "pvt",
)

// personTitles strongly indicate an individual when they open a name.
var personTitles = makeSet(
	"mr", "mrs", "ms", "miss", "dr", "prof", "sir", "dame", "rev", "reverend",
	"capt", "captain", "sgt", "sergeant", "lt", "lieutenant", "col", "colonel",
	"gen", "general", "hon", "honorable", "judge", "justice", "rabbi", "imam",
	"pastor", "brother", "sister", "father", "mother", "jr", "sr", "ii", "iii", "iv",
)

// personTitleSuffixes indicate an individual when they close a name.
var personTitleSuffixes = makeSet(
	"jr", "sr", "ii", "iii", "iv", "esq", "md", "phd", "dds", "cpa", "rn", "pe",
)

// corpKeywords are industry and org nouns that strongly indicate an
// organization anywhere in a name.
var corpKeywords = makeSet(
	"group", "associates", "partners", "consulting", "consultants", "services", "solutions",
	"technologies", "technology", "tech", "systems", "global", "worldwide", "enterprises",
	"industries", "international", "intl", "holdings", "holding", "management", "capital",
	"financial", "insurance", "logistics", "supply", "manufacturing", "mfg", "construction",
	"engineering", "design", "media", "communications", "network", "networks", "pharma",
	"pharmaceutical", "medical", "healthcare", "health", "clinic", "hospital", "university",
	"college", "institute", "foundation", "society", "association", "federation", "council",
	"bureau", "agency", "authority", "department", "division",
	"bank", "trust", "fund", "realty", "property", "properties", "development",
	"foods", "food", "beverage", "restaurant", "hotel", "resort",
	"airlines", "airways", "motors", "auto", "automotive", "electric", "energy", "power",
	"petroleum", "oil", "gas", "mining", "metals", "steel", "chemical", "chemicals",
	"textiles", "apparel", "furniture", "equipment", "tools", "hardware",
	"software", "digital", "data", "cloud", "cyber", "security", "defense", "defence",
	"transport", "transportation", "freight", "shipping", "marine", "aviation",
	"telecom", "telecommunications", "wireless", "publishing",
	"studio", "studios", "entertainment", "gaming",
	"retail", "wholesale", "distribution", "distributors", "imports", "exports", "trading",
	"ventures", "innovations", "labs", "laboratory", "laboratories", "research",
	"cooperative", "coop", "union", "works", "factory", "plant", "mill",
	"store", "stores", "shop", "shops", "market", "markets", "mart", "plaza", "center", "centre",
	"depot", "warehouse", "exchange",
)

// commonFirstWords are overused business-name openers. A blocking key built
// from one of these alone would create mega-buckets, so the key extends to
// the second token.
var commonFirstWords = makeSet(
	"american", "national", "united", "general", "first", "new", "north", "south",
	"east", "west", "central", "pacific", "atlantic", "great", "royal", "standard",
	"advanced", "applied", "best", "blue", "city", "classic", "complete", "creative",
	"custom", "digital", "direct", "elite", "express", "five", "four", "golden",
	"green", "high", "home", "ideal", "key", "all", "star", "sun", "top", "total",
	"tri", "true", "twin", "us", "usa", "white", "world", "pro", "premier", "prime",
)

// comparisonSuffixes are the org-form and generic business words dropped
// during similarity comparison cleaning. Broader than legalSuffixes: generic
// nouns like "supply" and "products" carry no identity signal when scoring
// two names against each other.
var comparisonSuffixes = makeSet(
	"inc", "incorporated", "corp", "corporation", "ltd", "limited",
	"llc", "llp", "plc", "pvt", "private", "gmbh", "ag", "sa", "nv", "bv",
	"co", "company", "group", "holdings", "holding", "enterprises", "enterprise",
	"services", "service", "solutions", "solution", "technologies", "technology",
	"tech", "systems", "system", "consulting", "consultants", "consultant",
	"partners", "partner", "associates", "associate", "industries", "industry",
	"industrial", "manufacturing", "mfg", "retail", "wholesale", "trading",
	"traders", "trader", "distributors", "distributor", "distribution",
	"logistics", "supplies", "supply", "products", "product", "brands", "brand",
	"pte", "pty", "sdn", "bhd", "kabushiki", "kaisha", "kk", "ab", "oy", "as",
)

// locationWords are geographic qualifiers removed during comparison cleaning
// and canonical-name output cleaning.
var locationWords = makeSet(
	"singapore", "india", "indian", "china", "chinese", "japan", "japanese",
	"korea", "korean", "taiwan", "thailand", "vietnam", "indonesia", "malaysia",
	"philippines", "australia", "australian", "uk", "usa", "us", "canada",
	"canadian", "mexico", "mexican", "brazil", "brazilian", "germany", "german",
	"france", "french", "italy", "italian", "spain", "spanish", "netherlands",
	"dutch", "belgium", "swiss", "switzerland", "austria", "austrian",
	"ireland", "irish", "sweden", "swedish", "norway", "norwegian", "denmark",
	"danish", "finland", "finnish", "polish", "poland", "russian", "russia",
	"british", "american", "bermuda", "hong", "kong", "hongkong",
)

// firstNames is a multi-culture given-name dictionary used by the
// person/organization classifier.
var firstNames = makeSet(
	// English - male
	"james", "john", "robert", "michael", "william", "david", "richard", "joseph", "thomas", "charles",
	"christopher", "daniel", "matthew", "anthony", "mark", "donald", "steven", "paul", "andrew", "joshua",
	"kenneth", "kevin", "brian", "george", "timothy", "ronald", "edward", "jason", "jeffrey", "ryan",
	"jacob", "gary", "nicholas", "eric", "jonathan", "stephen", "larry", "justin", "scott", "brandon",
	"benjamin", "samuel", "raymond", "gregory", "frank", "alexander", "patrick", "jack", "dennis", "jerry",
	"tyler", "aaron", "jose", "adam", "nathan", "henry", "peter", "zachary", "douglas", "harold",
	"kyle", "noah", "gerald", "carl", "keith", "roger", "jeremy", "terry", "sean", "austin",
	"arthur", "lawrence", "jesse", "dylan", "bryan", "joe", "jordan", "billy", "bruce", "albert",
	"willie", "gabriel", "logan", "ralph", "eugene", "russell", "bobby", "mason", "philip", "louis",
	"wayne", "randy", "vincent", "liam", "ethan", "aiden", "owen", "luke", "connor", "ian",
	// English - female
	"mary", "patricia", "jennifer", "linda", "barbara", "elizabeth", "susan", "jessica", "sarah", "karen",
	"lisa", "nancy", "betty", "margaret", "sandra", "ashley", "dorothy", "kimberly", "emily", "donna",
	"michelle", "carol", "amanda", "melissa", "deborah", "stephanie", "rebecca", "sharon", "laura", "cynthia",
	"kathleen", "amy", "angela", "shirley", "anna", "brenda", "pamela", "emma", "nicole", "helen",
	"samantha", "katherine", "christine", "debra", "rachel", "carolyn", "janet", "catherine", "maria", "heather",
	"diane", "ruth", "julie", "olivia", "joyce", "virginia", "victoria", "kelly", "lauren", "christina",
	"joan", "evelyn", "judith", "megan", "andrea", "cheryl", "hannah", "jacqueline", "martha", "gloria",
	"teresa", "ann", "sara", "madison", "frances", "kathryn", "janice", "jean", "abigail", "alice",
	"julia", "judy", "sophia", "grace", "denise", "amber", "doris", "marilyn", "danielle", "beverly",
	"isabella", "theresa", "diana", "natalie", "brittany", "charlotte", "marie", "kayla", "alexis", "lori",
	// Indian
	"aarav", "aditya", "akash", "akshay", "akshaye", "amit", "amitabh", "anil", "ankit", "anurag",
	"arjun", "arun", "ashish", "bharat", "chandra", "deepak", "dev", "dhruv", "dinesh", "ganesh",
	"gaurav", "gopal", "hari", "harsh", "hemant", "ishaan", "jagdish", "jay", "karan", "kartik",
	"krishna", "kumar", "lalit", "mahesh", "manoj", "mohit", "mukesh", "naman", "naresh", "nikhil",
	"nitin", "pankaj", "pranav", "prashant", "rahul", "raj", "rajesh", "rajan", "rakesh", "ravi",
	"rohit", "sachin", "sanjay", "sanjeev", "satish", "shiv", "shyam", "siddharth", "sunil", "suresh",
	"tushar", "varun", "vijay", "vikram", "vinay", "vinod", "vipin", "vishal", "vivek", "yash",
	"aarti", "ananya", "anjali", "anita", "asha", "bhavna", "chitra", "deepa", "divya", "durga",
	"gayatri", "geeta", "isha", "jaya", "jyoti", "kajal", "kavita", "komal", "lata", "madhuri",
	"mamta", "meena", "megha", "mira", "nandini", "neha", "nisha", "nita", "padma", "pallavi",
	"pooja", "priya", "radha", "rashmi", "rekha", "renu", "rina", "ritu", "roshni", "sakshi",
	"sangeeta", "sarita", "seema", "shanti", "shilpa", "shreya", "sita", "smita", "sneha", "sonali",
	"sonia", "sudha", "sunita", "sushma", "swati", "tanvi", "uma", "usha", "vandana", "vidya",
	// Chinese (romanized)
	"wei", "fang", "lei", "jing", "ling", "yan", "hui", "xin",
	"ming", "hong", "ping", "chun", "dong", "feng", "hai", "jie", "jun", "kai",
	"bin", "bo", "chang", "cheng", "gang", "guo", "hao", "hua", "jian", "liang",
	"lin", "long", "peng", "qiang", "rong", "shan", "tao", "wen", "xiang", "yi",
	"yong", "yuan", "yun", "zhi", "zhong",
	// Hispanic
	"alejandro", "alfredo", "andres", "angel", "antonio", "arturo", "carlos", "cesar", "cristian", "diego",
	"eduardo", "enrique", "ernesto", "felipe", "fernando", "francisco", "guillermo", "gustavo", "hector", "hugo",
	"ignacio", "ivan", "javier", "jesus", "joaquin", "jorge", "juan", "julio", "leonardo", "luis",
	"manuel", "marco", "marcos", "mario", "martin", "miguel", "nicolas", "oscar", "pablo", "pedro",
	"rafael", "ramon", "raul", "ricardo", "rodrigo", "ruben", "salvador", "santiago", "sergio", "victor",
	"adriana", "alejandra", "alicia", "ana", "beatriz", "camila", "carmen", "catalina", "claudia", "daniela",
	"elena", "fernanda", "gabriela", "guadalupe", "isabel", "jimena", "lucia", "luisa", "margarita",
	"monica", "natalia", "paola", "patricia", "rosa", "silvia", "sofia", "valentina", "valeria", "veronica",
	// Arabic
	"abdul", "abdullah", "ahmad", "ahmed", "ali", "amir", "bilal", "farid", "hamza", "hasan",
	"hassan", "hussein", "ibrahim", "imran", "ismail", "jamal", "kareem", "khalid", "mahmoud", "mansour",
	"mohammed", "mohamad", "muhammad", "mustafa", "nabil", "nader", "nasir", "omar", "rashid",
	"saeed", "said", "saleh", "sami", "tariq", "walid", "youssef", "zaid",
	"aisha", "amina", "ayesha", "fatima", "hana", "khadija", "layla", "leila", "mariam",
	"maryam", "nadia", "noura", "rania", "reem", "salma", "yasmin", "zahra",
	// European
	"anders", "bjorn", "erik", "gustav", "hans", "henrik", "ingrid", "johan", "karl", "lars",
	"magnus", "nils", "olaf", "sven", "axel", "astrid", "brigitte", "elsa",
	"franz", "fritz", "gerhard", "gunther", "heinrich", "helmut", "jurgen", "klaus", "ludwig",
	"manfred", "otto", "rolf", "siegfried", "ulrich", "werner", "wolfgang", "claude", "francois", "jacques",
	"jean", "marcel", "philippe", "pierre", "rene", "yves", "andre", "antoine",
	"benoit", "christophe", "dominique", "etienne", "florian", "guillaume",
	"laurent", "mathieu", "olivier", "pascal", "raphael", "sebastien", "thierry",
	"giovanni", "giuseppe", "luca", "matteo", "paolo", "roberto", "angelo", "bruno",
	"carlo", "dario", "fabio", "giorgio", "lorenzo", "massimo", "nicola", "pietro", "stefano",
	// Korean/Japanese romanized
	"hyun", "jin", "sang", "seung", "soo", "sung", "won", "young",
	"akira", "haruki", "hiroshi", "kenji", "makoto", "naoki", "satoshi", "takeshi",
	"yuki", "haruka", "keiko", "megumi", "sakura", "yumi",
	// Common short names
	"bob", "rob", "ted", "ed", "al", "ben", "dan", "don", "jim", "jon", "sam", "tim", "tom", "pat", "sue", "lee",
	"max", "ray", "roy", "rex", "bud", "hal", "ned", "walt", "hank", "chuck", "rick", "nick", "mike", "dave",
	"steve", "chris", "matt", "jeff", "greg", "craig", "brad", "chad", "derek", "troy", "wade", "dean", "dale",
)

// outputSuffixPatterns match legal-form suffixes, including multi-word and
// dotted spellings, during canonical display-name cleaning.
var outputSuffixPatterns = compilePatterns(
	`\bprivate\s+limited\b`,
	`\bpvt\.?\s*ltd\.?\b`,
	`\bpte\.?\s*ltd\.?\b`,
	`\bsociedad\s+anonima\b`,
	`\bsp\.?\s*z\.?\s*o\.?\s*o\.?\b`,
	`\bsdn\.?\s*bhd\.?\b`,
	`\bpty\.?\s*ltd\.?\b`,
	`\bnaamloze\s+vennootschap\b`,
	`\bbesloten\s+vennootschap\b`,
	`\bincorporated\b`,
	`\bcorporation\b`,
	`\blimited\b`,
	`\bcompany\b`,
	`\bgmbh\b`,
	`\bcorp\.?\b`,
	`\binc\.?\b`,
	`\bltd\.?\b`,
	`\bllc\.?\b`,
	`\bllp\.?\b`,
	`\bplc\.?\b`,
	`\bpvt\.?\b`,
	`\bpte\.?\b`,
	`\bpty\.?\b`,
	`\bs\.?r\.?l\.?\b`,
	`\bco\.?\b`,
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}
	return compiled
}

func makeSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
