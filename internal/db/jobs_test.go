package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkill(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Python", "python"},
		{"Node.js", "nodejs"},
		{"C++", "c"},
		{"Machine Learning", "machinelearning"},
		{"  SQL  ", "sql"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkill(tt.in))
		})
	}
}

func skillSet(skills ...string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, s := range skills {
		out[NormalizeSkill(s)] = struct{}{}
	}
	return out
}

func TestScoreJobs_RanksByOverlap(t *testing.T) {
	jobs := []Job{
		{Title: "Backend Engineer", RequiredSkills: "Go, Postgres, Docker"},
		{Title: "Data Analyst", RequiredSkills: "SQL, Excel"},
		{Title: "Designer", RequiredSkills: "Figma"},
	}

	scored := ScoreJobs(jobs, skillSet("Go", "Postgres"), 10)
	require.Len(t, scored, 3)
	assert.Equal(t, "Backend Engineer", scored[0].Title)
	assert.Equal(t, 60+2*8, scored[0].MatchScore)
	assert.Equal(t, 60, scored[1].MatchScore)
	assert.Equal(t, 60, scored[2].MatchScore)
}

func TestScoreJobs_CapAt100(t *testing.T) {
	jobs := []Job{{Title: "Polyglot", RequiredSkills: "go, rust, python, java, sql, docker"}}

	scored := ScoreJobs(jobs, skillSet("go", "rust", "python", "java", "sql", "docker"), 1)
	require.Len(t, scored, 1)
	assert.Equal(t, 100, scored[0].MatchScore)
}

func TestScoreJobs_TitleContributesSkills(t *testing.T) {
	jobs := []Job{{Title: "Python Developer", RequiredSkills: ""}}

	scored := ScoreJobs(jobs, skillSet("python"), 1)
	require.Len(t, scored, 1)
	assert.Equal(t, 68, scored[0].MatchScore)
}

func TestScoreJobs_DuplicateTokensCountOnce(t *testing.T) {
	jobs := []Job{{Title: "Go Engineer", RequiredSkills: "Go; go / GO"}}

	scored := ScoreJobs(jobs, skillSet("go"), 1)
	require.Len(t, scored, 1)
	assert.Equal(t, 68, scored[0].MatchScore)
}

func TestScoreJobs_NoSkillsBaseScore(t *testing.T) {
	jobs := []Job{
		{Title: "B Role", RequiredSkills: "anything"},
		{Title: "A Role", RequiredSkills: "whatever"},
	}

	scored := ScoreJobs(jobs, nil, 10)
	require.Len(t, scored, 2)
	assert.Equal(t, "A Role", scored[0].Title, "ties break by title")
	assert.Equal(t, 60, scored[0].MatchScore)
}

func TestScoreJobs_Limit(t *testing.T) {
	jobs := []Job{
		{Title: "One"}, {Title: "Two"}, {Title: "Three"},
	}

	assert.Len(t, ScoreJobs(jobs, nil, 2), 2)
	assert.Len(t, ScoreJobs(jobs, nil, 0), 3)
}

func TestStringArrayScanValue(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["go", "sql"]`)))
	assert.Equal(t, StringArray{"go", "sql"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	v, err := StringArray{"x"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, string(v.([]byte)))

	v, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v.([]byte)))
}

func TestSkillEntriesScanValue(t *testing.T) {
	var s SkillEntries
	require.NoError(t, s.Scan([]byte(`[{"name": "Go", "percent": 80}]`)))
	require.Len(t, s, 1)
	assert.Equal(t, SkillEntry{Name: "Go", Percent: 80}, s[0])

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	v, err := SkillEntries{{Name: "SQL", Percent: 70}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "SQL", "percent": 70}]`, string(v.([]byte)))
}
