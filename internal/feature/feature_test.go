package feature

import "testing"

func TestDefaultGateAllowsEverything(t *testing.T) {
	g := Default()
	for _, tok := range AllTokens {
		if !g.Allows(tok) {
			t.Errorf("Default gate should allow %s", tok)
		}
	}
}

func TestNilGateAllowsEverything(t *testing.T) {
	var g *Gate
	if !g.Allows(AsyncAwait) {
		t.Error("nil gate should allow every token")
	}
}

func TestWhitelistGateAllowsOnlyListedTokens(t *testing.T) {
	g := New(Whitelist, []Token{LetConst, IfStatement})

	if !g.Allows(LetConst) {
		t.Error("whitelist should allow LetConst")
	}
	if !g.Allows(IfStatement) {
		t.Error("whitelist should allow IfStatement")
	}
	if g.Allows(AsyncAwait) {
		t.Error("whitelist should forbid AsyncAwait")
	}
}

func TestBlacklistGateForbidsOnlyListedTokens(t *testing.T) {
	g := New(Blacklist, []Token{Generators, Classes})

	if g.Allows(Generators) {
		t.Error("blacklist should forbid Generators")
	}
	if g.Allows(Classes) {
		t.Error("blacklist should forbid Classes")
	}
	if !g.Allows(LetConst) {
		t.Error("blacklist should allow everything else")
	}
}

func TestEmptyWhitelistAllowsNothing(t *testing.T) {
	g := New(Whitelist, nil)
	for _, tok := range AllTokens {
		if g.Allows(tok) {
			t.Errorf("empty whitelist should forbid %s", tok)
		}
	}
}

func TestEmptyBlacklistAllowsEverything(t *testing.T) {
	g := New(Blacklist, nil)
	for _, tok := range AllTokens {
		if !g.Allows(tok) {
			t.Errorf("empty blacklist should allow %s", tok)
		}
	}
}
