package extract

import (
	"regexp"
	"strings"
)

// MaxKeywords caps the keyword list stored per job.
const MaxKeywords = 15

// Category groups catalogue entries.
type Category string

const (
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryDatabase  Category = "database"
	CategoryCloud     Category = "cloud_devops"
	CategoryData      Category = "data_ml"
	CategoryMisc      Category = "misc"
)

// Keyword is one catalogue entry. Name is the canonical display form and
// must itself be matched by one of the aliases.
type Keyword struct {
	Name     string
	Category Category
	Aliases  []string
}

// Entries whose name contains another entry's name must come after it,
// so a capped list never keeps the longer one without the shorter.
var catalogue = []Keyword{
	// languages
	{"Python", CategoryLanguage, []string{"python"}},
	{"Java", CategoryLanguage, []string{"java"}},
	{"JavaScript", CategoryLanguage, []string{"javascript", "ecmascript"}},
	{"TypeScript", CategoryLanguage, []string{"typescript"}},
	{"C++", CategoryLanguage, []string{"c++", "cpp"}},
	{"C#", CategoryLanguage, []string{"c#", "csharp"}},
	{"Golang", CategoryLanguage, []string{"golang", "go lang"}},
	{"Rust", CategoryLanguage, []string{"rust"}},
	{"Kotlin", CategoryLanguage, []string{"kotlin"}},
	{"Swift", CategoryLanguage, []string{"swift"}},
	{"Scala", CategoryLanguage, []string{"scala"}},
	{"Ruby", CategoryLanguage, []string{"ruby"}},
	{"PHP", CategoryLanguage, []string{"php"}},
	{"MATLAB", CategoryLanguage, []string{"matlab"}},
	{"Bash", CategoryLanguage, []string{"bash", "shell scripting"}},

	// frameworks
	{"React", CategoryFramework, []string{"react", "react.js", "reactjs"}},
	{"Angular", CategoryFramework, []string{"angular", "angularjs"}},
	{"Vue.js", CategoryFramework, []string{"vue.js", "vuejs", "vue"}},
	{"Node.js", CategoryFramework, []string{"node.js", "nodejs", "node"}},
	{"Express.js", CategoryFramework, []string{"express.js", "expressjs"}},
	{"Next.js", CategoryFramework, []string{"next.js", "nextjs"}},
	{"Django", CategoryFramework, []string{"django"}},
	{"Flask", CategoryFramework, []string{"flask"}},
	{"FastAPI", CategoryFramework, []string{"fastapi"}},
	{"Spring Boot", CategoryFramework, []string{"spring boot", "springboot", "spring"}},
	{"Hibernate", CategoryFramework, []string{"hibernate"}},
	{".NET", CategoryFramework, []string{".net", "dotnet", "asp.net"}},
	{"Rails", CategoryFramework, []string{"ruby on rails", "rails"}},
	{"Android", CategoryFramework, []string{"android"}},
	{"iOS", CategoryFramework, []string{"ios"}},

	// databases
	{"SQL", CategoryDatabase, []string{"sql"}},
	{"MySQL", CategoryDatabase, []string{"mysql"}},
	{"PostgreSQL", CategoryDatabase, []string{"postgresql", "postgres"}},
	{"SQL Server", CategoryDatabase, []string{"sql server", "mssql"}},
	{"Oracle", CategoryDatabase, []string{"oracle"}},
	{"NoSQL", CategoryDatabase, []string{"nosql"}},
	{"MongoDB", CategoryDatabase, []string{"mongodb", "mongo"}},
	{"Redis", CategoryDatabase, []string{"redis"}},
	{"Cassandra", CategoryDatabase, []string{"cassandra"}},
	{"DynamoDB", CategoryDatabase, []string{"dynamodb"}},
	{"Elasticsearch", CategoryDatabase, []string{"elasticsearch", "elastic search"}},
	{"Snowflake", CategoryDatabase, []string{"snowflake"}},
	{"BigQuery", CategoryDatabase, []string{"bigquery"}},

	// cloud / devops
	{"AWS", CategoryCloud, []string{"aws", "amazon web services"}},
	{"Azure", CategoryCloud, []string{"azure"}},
	{"GCP", CategoryCloud, []string{"gcp", "google cloud"}},
	{"Docker", CategoryCloud, []string{"docker"}},
	{"Kubernetes", CategoryCloud, []string{"kubernetes", "k8s"}},
	{"Terraform", CategoryCloud, []string{"terraform"}},
	{"Ansible", CategoryCloud, []string{"ansible"}},
	{"Jenkins", CategoryCloud, []string{"jenkins"}},
	{"GitHub Actions", CategoryCloud, []string{"github actions"}},
	{"CI/CD", CategoryCloud, []string{"ci/cd", "ci-cd", "cicd"}},
	{"Linux", CategoryCloud, []string{"linux"}},

	// data / ml
	{"AI", CategoryData, []string{"ai", "artificial intelligence"}},
	{"Generative AI", CategoryData, []string{"generative ai", "genai", "gen ai"}},
	{"Machine Learning", CategoryData, []string{"machine learning", "ml"}},
	{"Deep Learning", CategoryData, []string{"deep learning"}},
	{"NLP", CategoryData, []string{"nlp", "natural language processing"}},
	{"LLM", CategoryData, []string{"llm", "llms", "large language model", "large language models"}},
	{"Computer Vision", CategoryData, []string{"computer vision"}},
	{"TensorFlow", CategoryData, []string{"tensorflow"}},
	{"PyTorch", CategoryData, []string{"pytorch"}},
	{"Scikit-learn", CategoryData, []string{"scikit-learn", "scikit learn", "sklearn"}},
	{"Pandas", CategoryData, []string{"pandas"}},
	{"NumPy", CategoryData, []string{"numpy"}},
	{"Spark", CategoryData, []string{"spark", "apache spark", "pyspark"}},
	{"Hadoop", CategoryData, []string{"hadoop"}},
	{"Airflow", CategoryData, []string{"airflow"}},
	{"ETL", CategoryData, []string{"etl"}},
	{"Tableau", CategoryData, []string{"tableau"}},
	{"Power BI", CategoryData, []string{"power bi", "powerbi"}},

	// misc
	{"Microservices", CategoryMisc, []string{"microservices", "microservice", "micro-services"}},
	{"REST API", CategoryMisc, []string{"rest api", "rest apis", "restful"}},
	{"GraphQL", CategoryMisc, []string{"graphql"}},
	{"gRPC", CategoryMisc, []string{"grpc"}},
	{"Kafka", CategoryMisc, []string{"kafka", "apache kafka"}},
	{"RabbitMQ", CategoryMisc, []string{"rabbitmq"}},
	{"HTML", CategoryMisc, []string{"html", "html5"}},
	{"CSS", CategoryMisc, []string{"css", "css3"}},
	{"Git", CategoryMisc, []string{"git"}},
	{"Jira", CategoryMisc, []string{"jira"}},
	{"Agile", CategoryMisc, []string{"agile"}},
	{"Scrum", CategoryMisc, []string{"scrum"}},
}

// implied lists shorter entries contained in a longer entry's name. An alias
// such as "mssql" matches only the longer entry, while the joined output
// "SQL Server" also matches "SQL", so both are reported from the start.
var implied = map[string][]string{
	"SQL Server":    {"SQL"},
	"Generative AI": {"AI"},
}

type keywordMatcher struct {
	name string
	re   *regexp.Regexp
}

var matchers = compileCatalogue(catalogue)

// compileCatalogue builds one matcher per entry. Word-boundary \b is useless
// for "C++" and "C#", so boundaries are explicit character classes: the
// right side also refuses '+' and '#' so "C" style prefixes never match
// inside "C++".
func compileCatalogue(entries []Keyword) []keywordMatcher {
	out := make([]keywordMatcher, 0, len(entries))
	for _, k := range entries {
		alts := make([]string, 0, len(k.Aliases))
		for _, alias := range k.Aliases {
			quoted := regexp.QuoteMeta(strings.ToLower(alias))
			alts = append(alts, strings.ReplaceAll(quoted, " ", `\s+`))
		}
		pattern := `(?i)(?:^|[^\p{L}\p{N}_])(?:` + strings.Join(alts, "|") + `)(?:$|[^\p{L}\p{N}_+#])`
		out = append(out, keywordMatcher{name: k.Name, re: regexp.MustCompile(pattern)})
	}
	return out
}

// Catalogue returns a copy of the keyword table.
func Catalogue() []Keyword {
	out := make([]Keyword, len(catalogue))
	copy(out, catalogue)
	return out
}

// EssentialKeywords returns the catalogue keywords mentioned in text, in
// catalogue order, capped at MaxKeywords.
func EssentialKeywords(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = normalizeText(text)

	found := make(map[string]bool)
	for _, m := range matchers {
		if !m.re.MatchString(text) {
			continue
		}
		found[m.name] = true
		for _, name := range implied[m.name] {
			found[name] = true
		}
	}

	var out []string
	for _, m := range matchers {
		if len(out) == MaxKeywords {
			break
		}
		if found[m.name] {
			out = append(out, m.name)
		}
	}
	return out
}

// JoinKeywords renders a keyword list the way it is stored in a record.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}
