package score

import "regexp"

// Pattern pairs a compiled regex with the score delta it contributes when it
// matches. A pattern counts once per item no matter how many times it matches.
type Pattern struct {
	re    *regexp.Regexp
	delta int
}

func pat(expr string, delta int) Pattern {
	return Pattern{re: regexp.MustCompile(expr), delta: delta}
}

// PatternSet holds the three pattern tables the scorer applies to the
// case-folded title+body text. It is a plain value so tests and callers can
// swap in their own tables without touching the scoring algorithm.
type PatternSet struct {
	Churn      []Pattern // generic technical-churn signals, positive
	Enterprise []Pattern // enterprise dev-tool opportunity signals, positive
	Noise      []Pattern // marketing/hype/self-promo anti-signals, negative
}

// DefaultPatternSet returns the built-in pattern tables. All expressions are
// lowercase, matching is done against lowered text.
func DefaultPatternSet() PatternSet {
	return PatternSet{Churn: churnPatterns(), Enterprise: enterprisePatterns(), Noise: noisePatterns()}
}

func churnPatterns() []Pattern {
	return []Pattern{
		// breaking changes and migrations
		pat(`\bbreaking\s+change`, 25),
		pat(`\bdeprecate[ds]?\b`, 20),
		pat(`\bmigrat(e|ion|ing)\b`, 15),
		pat(`\bremov(e[ds]?|ing)\b.{0,30}\b(api|support|feature)`, 15),
		pat(`\bend[- ]?of[- ]?life\b`, 20),

		// failures and rollbacks
		pat(`\broll(ed)?\s*back\b`, 25),
		pat(`\breverted?\b`, 20),
		pat(`\bpost[- ]?mortem\b`, 30),
		pat(`\bincident\s+(report|review)\b`, 25),
		pat(`\boutage\b`, 20),
		pat(`\bfail(ed|ure|ing)\b`, 10),
		pat(`\bregression\b`, 15),

		// rewrites and major changes
		pat(`\brewrit(e|ten|ing)\b`, 15),
		pat(`\brearchitect`, 15),
		pat(`\bfrom\s+scratch\b`, 10),
		pat(`\bmajor\s+(version|release|update)\b`, 10),
		pat(`\bv\d+\.0\.0\b`, 10),

		// pain signals
		pat(`\bfrustrat(ed|ing|ion)\b`, 10),
		pat(`\bworkaround\b`, 10),
		pat(`\bbug\b.*\b(critical|severe|major)\b`, 15),
		pat(`\bsecurity\s+(vulnerabilit|advis|patch|fix)`, 20),
		pat(`\bcve-\d{4}`, 20),

		// performance and scaling
		pat(`\bperformance\s+(regression|degradation|issue)`, 15),
		pat(`\bmemory\s+leak\b`, 15),
		pat(`\b\d+x\s+(faster|slower)\b`, 10),

		// technical depth signals
		pat(`\bbenchmark`, 8),
		pat(`\barchitecture\s+decision\b`, 10),
		pat(`\blessons?\s+learned\b`, 15),
		pat(`\bwhy\s+we\s+(chose|switched|moved|left|abandoned)\b`, 15),
	}
}

func enterprisePatterns() []Pattern {
	return []Pattern{
		// explicit wish / feature request signals
		pat(`\bi\s+wish\s+(there\s+was|there\s+were|we\s+had|we\s+could)\b`, 15),
		pat(`\bi\s+wish\s+\w+\s+had\b`, 20),
		pat(`\bwhy\s+(doesn't|can't|won't|isn't)\b`, 10),
		pat(`\bfeature\s+request\b`, 15),
		pat(`\bwould\s+be\s+(great|nice|helpful|awesome)\s+(if|to)\b`, 10),
		pat(`\bmissing\s+feature\b`, 20),
		pat(`\bno\s+(way|option|ability)\s+to\b`, 15),
		pat(`\bneeds?\s+(a|an|better)\s+(way|option|tool|solution)\b`, 15),
		pat(`\bcan't\s+believe\s+there's\s+no\b`, 25),

		// CI/CD friction
		pat(`\b(github\s+)?actions?\s+(is|are)\s+(slow|broken|flaky|unreliable|painful)`, 25),
		pat(`\bworkflow\s+(is|keeps?)\s+(fail|break|timeout|slow|flaky)`, 20),
		pat(`\bci\s+(is|keeps?)\s+(slow|flaky|broken|failing|unreliable)`, 20),
		pat(`\bpipeline\s+(is|keeps?)\s+(slow|break|fail|flaky)`, 15),
		pat(`\bactions?\s+(timeout|timed?\s+out)\b`, 15),
		pat(`\brunner\s+(is|are)\s+(slow|unavailable|down)\b`, 15),
		pat(`\bself[- ]hosted\s+runner`, 10),
		pat(`\bworkflow\s+(yaml|yml|syntax|config)\b.*\b(confus|complex|hard|painful)`, 15),
		pat(`\bcache\s+(miss|invalid|not\s+work|broken|slow)\b`, 15),
		pat(`\bartifact\s+(upload|download)\s+(slow|fail|broken|limit)\b`, 15),

		// repetitive work / automation wishes
		pat(`\bmanual(ly)?\s+(approv|review|deploy|merge|tag|release|update|bump)`, 15),
		pat(`\brepetitive\s+(task|step|process|workflow|work)\b`, 15),
		pat(`\btoil\b`, 10),
		pat(`\bautomat(e|ion|ically)\b.*\b(wish|should|want|need|could)\b`, 15),
		pat(`\bbot\s+(that|to|for|which)\s+\w+`, 10),

		// code review pain
		pat(`\bcode\s+review\s+(is|takes?|slow|painful|bottleneck|broken|tedious)`, 25),
		pat(`\bpr\s+(review|approval)\s+(is|takes?|slow|blocked|bottleneck|waiting)`, 25),
		pat(`\breview\s+fatigue\b`, 20),
		pat(`\bstale\s+prs?\b`, 15),
		pat(`\bmerge\s+(conflicts?|queue|hell|nightmare)\b`, 15),
		pat(`\bchecks?\s+(are|is)\s+(slow|redundant|flaky|failing)\b`, 15),
		pat(`\bcodeowners\b.*\b(broken|doesn't|wrong|confus|limit|problem|issue|pain)`, 20),
		pat(`\bcodeowners\b`, 10),
		pat(`\bauto[- ]?merge\b`, 10),
		pat(`\bmerge\s+queue\b`, 10),

		// security and vulnerability management
		pat(`\bzero[- ]day\b`, 25),
		pat(`\bcritical\s+vulnerabilit`, 25),
		pat(`\bransomware\b`, 15),
		pat(`\bpatch\s+management\b`, 20),
		pat(`\bsecurity\s+(posture|baseline|hardening)\b`, 15),
		pat(`\bthreat\s+(model|detection|intelligence)\b`, 15),
		pat(`\bpenetration\s+test`, 10),
		pat(`\bsecurity\s+audit\b`, 20),
		pat(`\bincident\s+response\b`, 15),
		pat(`\bvulnerability\s+(manage|scan|remediat|priorit)`, 15),

		// compliance and audit
		pat(`\bsoc\s*2\b`, 20),
		pat(`\bsoc\s*[12]\s+type\s+[12]\b`, 25),
		pat(`\biso\s*27001\b`, 20),
		pat(`\bhipaa\b`, 20),
		pat(`\bgdpr\b`, 15),
		pat(`\bfedramp\b`, 20),
		pat(`\bpci[- ]dss\b`, 20),
		pat(`\bcompliance\s+(automation|drift|monitoring|report|check|audit|gap|requirement|polic)`, 20),
		pat(`\baudit\s+(trail|log|evidence|report)\b`, 15),
		pat(`\bpolicy[- ]as[- ]code\b`, 20),
		pat(`\bregulatory\s+(compliance|requirement)\b`, 15),
		pat(`\bcompliance\s+(violation|finding)\b`, 20),

		// infrastructure as code and devops
		pat(`\bterraform\b.*\b(drift|state|pain|broken|slow|issue|problem)\b`, 15),
		pat(`\bterraform\b`, 8),
		pat(`\binfrastructure[- ]as[- ]code\b`, 10),
		pat(`\biac\b`, 10),
		pat(`\bkubernetes\b.*\b(pain|complex|hard|config|security|cost)\b`, 15),
		pat(`\bk8s\b.*\b(pain|complex|hard|config|security|cost)\b`, 15),
		pat(`\bhelm\b.*\b(chart|pain|complex|broken)\b`, 10),
		pat(`\bansible\b.*\b(pain|slow|complex|broken)\b`, 10),
		pat(`\bconfiguration\s+(drift|management|sprawl)\b`, 15),
		pat(`\bcloud\s+(cost|spend|waste|optimization|governance)\b`, 15),
		pat(`\bfinops\b`, 15),
		pat(`\bcloud\s+native\b.*\b(security|compliance|governance)\b`, 10),

		// observability and incident management
		pat(`\bobservability\b`, 10),
		pat(`\bmonitoring\s+(gap|blind\s+spot|alert\s+fatigue)\b`, 15),
		pat(`\balert\s+fatigue\b`, 20),
		pat(`\bon[- ]call\s+(rotation|burden|fatigue|pain)\b`, 15),
		pat(`\bincident\s+(management|coordination|retrospective)\b`, 15),
		pat(`\bslo\b.*\b(track|monitor|breach|burn)\b`, 15),
		pat(`\bsli\b.*\b(defin|measur|track)\b`, 10),
		pat(`\bmean\s+time\s+to\s+(recover|detect|resolve)\b`, 15),
		pat(`\bmttr\b`, 10),

		// secrets management
		pat(`\bsecrets?\s+(leak|expos|rotat|scan|detect|manage)`, 20),
		pat(`\bsecrets?\s+management\b`, 15),
		pat(`\bvault\b.*\b(pain|complex|config|issue)\b`, 10),
		pat(`\bsecret\s+rotation\b`, 15),
		pat(`\bcredential\s+(leak|rotat|manag|sprawl)\b`, 15),
		pat(`\bapi\s+key\s+(rotat|manag|leak|expos)\b`, 15),

		// software supply chain
		pat(`\bsbom\b`, 15),
		pat(`\bsupply\s+chain\s+(security|attack|risk|integrity)`, 20),
		pat(`\bdependency\s+(confusion|hijack)\b`, 20),
		pat(`\bpackage\s+(integrity|provenance|signing)\b`, 15),
		pat(`\bslsa\b`, 15),
		pat(`\bsoftware\s+composition\s+analysis\b`, 15),
		pat(`\bsca\b.*\b(tool|scan|result)\b`, 10),
		pat(`\bdependency\s+(vulnerabilit|audit|scan|update|hell|management)`, 20),
		pat(`\blicense\s+(compliance|check|scan|violation|audit)`, 15),
		pat(`\bsecret\s+scanning\b.*\b(miss|false|limit|doesn't|not\s+enough)`, 20),
		pat(`\bdependabot\b.*\b(slow|noisy|miss|doesn't|broken|limit|annoying)`, 20),

		// access control and identity
		pat(`\baccess\s+(control|management|review|governance)\b`, 15),
		pat(`\bprivilege\s+(escalation|management|creep)\b`, 20),
		pat(`\bleast\s+privilege\b`, 15),
		pat(`\biam\b.*\b(complex|pain|audit|review)\b`, 15),
		pat(`\bsso\b.*\b(integration|pain|issue|broken)\b`, 10),
		pat(`\brbac\b`, 10),

		// testing and code quality
		pat(`\bflaky\s+test`, 20),
		pat(`\btest\s+(coverage|gap|flak|automation|infrastructure)\b`, 15),
		pat(`\btesting\s+(pain|bottleneck|slow|manual|burden)\b`, 15),
		pat(`\bcode\s+quality\b.*\b(enforce|automat|gate|check)\b`, 15),
		pat(`\bstatic\s+analysis\b`, 10),
		pat(`\bsast\b`, 10),
		pat(`\bdast\b`, 10),
		pat(`\btechnical\s+debt\b`, 10),
		pat(`\bcode\s+coverage\b.*\b(enforce|requir|gate|low)\b`, 15),

		// developer productivity and platform engineering
		pat(`\bdeveloper\s+productivity\b`, 10),
		pat(`\bengineering\s+velocity\b`, 10),
		pat(`\bdeveloper\s+(platform|portal|self[- ]service)\b`, 15),
		pat(`\bplatform\s+engineering\b`, 15),
		pat(`\binternal\s+developer\s+platform\b`, 15),
		pat(`\bgolden\s+path\b`, 10),
		pat(`\bdeploy\s+(frequency|lead\s+time|time)\b`, 10),
		pat(`\bdora\s+metrics\b`, 20),
		pat(`\bdeveloper\s+experience\b`, 10),
		pat(`\bdx\b\s+(is|sucks|poor|bad|terrible|awful|needs)`, 20),
		pat(`\bonboarding\s+(is|takes?|slow|painful|difficult|hard|complex)`, 15),
		pat(`\bdev\s+(environment|setup|config)\s+(is|takes?|painful|slow|broken|complex)`, 15),

		// integration / tooling gaps
		pat(`\b(doesn't|don't|can't|no)\s+(integrat|connect|sync|work\s+with)\b`, 20),
		pat(`\bmissing\s+integration\b`, 20),
		pat(`\b(jira|linear|notion|slack|teams|discord)\s+(integration|sync|connect|bridge)`, 15),
		pat(`\bno\s+(native|built[- ]?in)\s+(support|integration|feature)\b`, 20),
		pat(`\bapi\s+(limitation|missing|gap|doesn't|insufficient|rate\s+limit)`, 15),
		pat(`\bwebhooks?\s+(missing|unreliable|limitation|delay|broken)`, 15),

		// monorepo / scale-related pain
		pat(`\bmonorepo\b.*\b(pain|slow|problem|issue|hard|scale|limit|doesn't)`, 15),
		pat(`\bmonorepo\b`, 8),
		pat(`\bcode\s+own(er|ership)\b.*\b(confus|broken|limit|doesn't|wrong|pain)`, 15),
		pat(`\blarge\s+(repo|repository|codebase)\b.*\b(slow|pain|problem|scale)`, 15),

		// notifications / noise management
		pat(`\bnotifications?\s+(noise|overload|flood|too\s+many|useless|overwhelm)`, 20),

		// release / deployment pain
		pat(`\brelease\s+(process|management|automation)\b.*\b(pain|manual|tedious|complex)`, 15),
		pat(`\bchangelog\s+(generat|automat|maintain)\b`, 10),
		pat(`\brelease\s+notes?\b.*\b(manual|automat|generat|tedious)`, 10),
	}
}

func noisePatterns() []Pattern {
	return []Pattern{
		// marketing / hype
		pat(`\bexcited\s+to\s+announce\b`, -15),
		pat(`\bgame[- ]?changer\b`, -20),
		pat(`\brevolution(ary|ize)\b`, -15),
		pat(`\bunlock\s+(the\s+)?power\b`, -15),
		pat(`\b10x\s+(developer|engineer|productivity)\b`, -20),
		pat(`\bsynerg`, -20),
		pat(`\bdelighted\b`, -10),

		// engagement bait
		pat(`\bthis\s+is\s+huge\b`, -10),
		pat(`\byou\s+won't\s+believe\b`, -20),
		pat(`\bmind[- ]?blow(n|ing)\b`, -15),
		pat(`\bhot\s+take\b`, -10),
		pat(`\bthread\s*[🧵⬇️↓]\s*$`, -10),

		// generic opinion
		pat(`\bmy\s+thoughts\s+on\b`, -5),
		pat(`\bunpopular\s+opinion\b`, -10),

		// hiring/job posts
		pat(`\bwe're\s+hiring\b`, -15),
		pat(`\bjoin\s+our\s+team\b`, -15),

		// self-promotion, someone advertising their own tool rather than complaining
		pat(`\bcheck\s+out\s+my\s+(app|action|tool|project|extension)\b`, -20),
		pat(`\bjust\s+(published|released|launched|shipped)\s+(my|our|a)\s+(app|action|tool)\b`, -15),
		pat(`\bintroducing\s+(my|our)\s+(new\s+)?(app|action|tool)\b`, -15),
		pat(`\bshow\s+hn\b`, -5),

		// testimonials, praise for existing tools is not a pain signal
		pat(`\b(love|loving)\s+(this|the)\s+(tool|app|action)\b`, -10),
		pat(`\bbest\s+(tool|app|action)\s+(i've|ever)\b`, -10),

		// tutorial content
		pat(`\bstep[- ]by[- ]step\s+(guide|tutorial)\b`, -10),
		pat(`\bbeginner'?s?\s+guide\b`, -10),
	}
}
