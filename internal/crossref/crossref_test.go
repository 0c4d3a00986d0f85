package crossref

import (
	"fmt"
	"testing"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
)

func withEntities(id, source string, topic domain.Topic, title string, names ...string) domain.Article {
	entities := make([]domain.Entity, len(names))
	for i, n := range names {
		entities[i] = domain.Entity{Name: n, Type: domain.EntityCompany}
	}
	return domain.Article{
		ID:      id,
		Source:  source,
		Topic:   topic,
		Title:   title,
		Summary: &domain.Summary{KeyEntities: entities},
	}
}

func relatedIDs(items []domain.RelatedItem) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = fmt.Sprintf("%s:%s", it.Type, it.ID)
	}
	return fmt.Sprint(out)
}

func TestEntitiesMatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{a: "AI", b: "Machine Learning", want: true},
		{a: "Machine Learning", b: "AI", want: true},
		{a: "AI", b: "Tesla", want: false},
		{a: "  tesla ", b: "Tesla", want: true},
		{a: "Fed", b: "Federal Reserve", want: true},
		{a: "EV", b: "electric vehicle", want: true},
		{a: "IPO", b: "initial public offering", want: true},
		{a: "crypto", b: "Bitcoin", want: true},
		{a: "VC", b: "venture capital", want: true},
		{a: "bitcoin", b: "blockchain", want: false},
		{a: "", b: "", want: false},
	}
	for _, tc := range cases {
		if got := EntitiesMatch(tc.a, tc.b); got != tc.want {
			t.Fatalf("EntitiesMatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestShortTermsMatchWholeWords(t *testing.T) {
	t.Parallel()

	if mentions("the ceo said revenue grew", "AI") {
		t.Fatalf("ai should not match inside said")
	}
	if !mentions("new ai chips ship today", "AI") {
		t.Fatalf("ai should match as a word")
	}
	if !mentions("a wave of machine learning startups", "AI") {
		t.Fatalf("ai should match through its synonym")
	}
}

func TestFindRelatedForArticle(t *testing.T) {
	t.Parallel()

	source := withEntities("src", "FT", domain.TopicScienceTech, "Nvidia and AI", "Nvidia", "AI")
	articles := []domain.Article{
		source,
		withEntities("one", "WSJ", domain.TopicScienceTech, "Machine learning boom", "machine learning"),
		withEntities("two", "Bloomberg", domain.TopicScienceTech, "Nvidia LLM push", "NVIDIA", "LLM"),
		withEntities("none", "Reuters", domain.TopicAutomotive, "Tesla recall", "Tesla"),
	}
	filing := withEntities("10k", "SEC", domain.TopicFinancialMarkets, "Nvidia 10-K", "Nvidia")
	filing.IsPrimaryDocument = true
	articles = append(articles, filing)

	newsletters := []domain.Newsletter{
		{ID: "nl1", Publication: "Stratechery", Subject: "Chips", Summary: &domain.Summary{TheNews: "Nvidia ships new accelerators for artificial intelligence."}},
		{ID: "nl2", Publication: "Axios", Subject: "Cars", Summary: &domain.Summary{TheNews: "Ford said it will cut prices."}},
	}

	got := FindRelatedForArticle(source, articles, newsletters)
	want := "[article:two newsletter:nl1 article:one primary-document:10k]"
	if relatedIDs(got) != want {
		t.Fatalf("expected %s, got %s", want, relatedIDs(got))
	}
	if got[0].Score != 2 || got[0].Source != "Bloomberg" {
		t.Fatalf("unexpected top item %+v", got[0])
	}
}

func TestFindRelatedCapsAtFour(t *testing.T) {
	t.Parallel()

	source := withEntities("src", "FT", domain.TopicScienceTech, "OpenAI", "OpenAI")
	var articles []domain.Article
	for i := 0; i < 6; i++ {
		articles = append(articles, withEntities(fmt.Sprint(i), "X", domain.TopicScienceTech, "t", "OpenAI"))
	}
	if got := FindRelatedForArticle(source, articles, nil); len(got) != MaxRelated {
		t.Fatalf("expected %d items, got %d", MaxRelated, len(got))
	}
}

func TestFindRelatedForArticleWithoutEntities(t *testing.T) {
	t.Parallel()

	got := FindRelatedForArticle(domain.Article{ID: "bare"}, []domain.Article{withEntities("x", "Y", "", "t", "Tesla")}, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestFindRelatedForNewsletter(t *testing.T) {
	t.Parallel()

	source := domain.Newsletter{
		ID:      "nl",
		Subject: "Stripe weighs listing",
		Summary: &domain.Summary{KeyEntities: []domain.Entity{{Name: "Stripe", Type: domain.EntityCompany}, {Name: "IPO", Type: domain.EntityKeyword}}},
	}
	articles := []domain.Article{
		withEntities("entity", "FT", domain.TopicFundraising, "Stripe files", "Stripe", "initial public offering"),
		withEntities("keyword", "WSJ", domain.TopicFundraising, "Listing rules", "NYSE listing rules"),
		withEntities("miss", "WSJ", domain.TopicAutomotive, "Cars", "Ford"),
	}
	others := []domain.Newsletter{
		source,
		{ID: "other", Subject: "Payments", Summary: &domain.Summary{Brief: "Stripe and Adyen fight over merchants."}},
	}

	got := FindRelatedForNewsletter(source, articles, others)
	want := "[article:entity article:keyword newsletter:other]"
	if relatedIDs(got) != want {
		t.Fatalf("expected %s, got %s", want, relatedIDs(got))
	}
	if got[0].Score != 4 {
		t.Fatalf("entity matches should count double, got %d", got[0].Score)
	}
	if got[1].Score != 1 {
		t.Fatalf("keyword fallback should count single, got %d", got[1].Score)
	}
}

func TestFindMatchingArticleIDs(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		withEntities("1", "FT", "", "t", "Federal Reserve"),
		withEntities("2", "FT", "", "t", "Anthropic"),
		withEntities("3", "FT", "", "t", "Rivian"),
	}

	structured := domain.Newsletter{Summary: &domain.Summary{KeyEntities: []domain.Entity{{Name: "Fed"}}}}
	if got := fmt.Sprint(FindMatchingArticleIDs(structured, articles)); got != "[1]" {
		t.Fatalf("unexpected structured match %s", got)
	}

	subjectOnly := domain.Newsletter{Subject: "Why Anthropic and Rivian matter"}
	if got := fmt.Sprint(FindMatchingArticleIDs(subjectOnly, articles)); got != "[2 3]" {
		t.Fatalf("unexpected subject match %s", got)
	}
}

func TestFindCoverageDensity(t *testing.T) {
	t.Parallel()

	article := withEntities("a", "FT", domain.TopicFundraising, "Stripe raises funding at record valuation", "Stripe", "Sequoia")
	peers := []domain.Article{
		article,
		withEntities("b", "WSJ", domain.TopicFundraising, "Stripe raises new funding at valuation record", "Stripe"),
		withEntities("c", "Bloomberg", domain.TopicFundraising, "Payments giant closes round", "stripe", "SEQUOIA"),
		withEntities("d", "WSJ", domain.TopicFundraising, "Stripe funding valuation record raises", "Stripe"),
		withEntities("e", "Reuters", domain.TopicFinancialMarkets, "Stripe raises funding at record valuation", "Stripe", "Sequoia"),
		withEntities("f", "Axios", domain.TopicFundraising, "Seed rounds slow down", "Y Combinator"),
	}

	got := FindCoverageDensity(article, peers)
	if got.Count != 4 {
		t.Fatalf("expected count 4, got %d", got.Count)
	}
	if fmt.Sprint(got.Sources) != "[WSJ Bloomberg]" {
		t.Fatalf("unexpected sources %v", got.Sources)
	}
}

func TestFindCoverageDensityAlone(t *testing.T) {
	t.Parallel()

	article := withEntities("solo", "FT", domain.TopicPolitics, "Election results", "Senate")
	got := FindCoverageDensity(article, []domain.Article{article, withEntities("x", "WSJ", domain.TopicAutomotive, "Election results", "Senate")})
	if got.Count != 1 || got.Sources == nil || len(got.Sources) != 0 {
		t.Fatalf("expected {1 []}, got %+v", got)
	}
}
