package javaparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javadocbot/internal/models"
)

const sampleClass = `package com.example;

import java.util.List;

public class OrderService {

    private final List<String> orders;

    /**
     * Creates the service.
     */
    public OrderService(List<String> orders) {
        this.orders = orders;
    }

    public int count() {
        return orders.size();
    }

    /**
     * Adds an order.
     */
    @Override
    public void add(String order) {
        orders.add(order);
    }

    public String describe(String prefix, int limit) {
        if (limit > 0) {
            return prefix + orders.size();
        }
        return prefix;
    }
}
`

func findElement(t *testing.T, elements []models.JavaElement, name string) models.JavaElement {
	t.Helper()
	for _, el := range elements {
		if el.Name == name {
			return el
		}
	}
	t.Fatalf("element %s not found in %v", name, elements)
	return models.JavaElement{}
}

func TestParseFileFindsClassAndMethods(t *testing.T) {
	elements, err := ParseFile("OrderService.java", sampleClass)
	require.NoError(t, err)

	cls := findElement(t, elements, "OrderService")
	assert.Equal(t, models.ElementClass, cls.Kind)
	assert.Equal(t, "class OrderService", cls.Signature)
	assert.False(t, cls.HasJavadoc)

	count := findElement(t, elements, "count")
	assert.Equal(t, models.ElementMethod, count.Kind)
	assert.False(t, count.HasJavadoc)

	describe := findElement(t, elements, "describe")
	assert.Equal(t, models.ElementMethod, describe.Kind)
	assert.Contains(t, describe.Signature, "describe(String prefix, int limit)")
	assert.False(t, describe.HasJavadoc)
}

func TestParseFileDetectsExistingJavadoc(t *testing.T) {
	elements, err := ParseFile("OrderService.java", sampleClass)
	require.NoError(t, err)

	add := findElement(t, elements, "add")
	assert.True(t, add.HasJavadoc, "javadoc above @Override must be seen through the annotation")
}

func TestParseFileIgnoresStatementsShapedLikeDeclarations(t *testing.T) {
	src := `public class Runner {
    public void run() {
        throw new IllegalStateException("boom");
    }
}
`
	elements, err := ParseFile("Runner.java", src)
	require.NoError(t, err)
	for _, el := range elements {
		assert.NotEqual(t, "IllegalStateException", el.Name)
		assert.NotEqual(t, "Thread", el.Name)
	}
	require.Len(t, elements, 2) // class + run
}

func TestParseFileInterfaceAndAbstractMethods(t *testing.T) {
	src := `public interface Store {
    void put(String key, String value);

    String get(String key);
}
`
	elements, err := ParseFile("Store.java", src)
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, models.ElementClass, elements[0].Kind)
	assert.Equal(t, "interface Store", elements[0].Signature)
	assert.Equal(t, "put", elements[1].Name)
	assert.Equal(t, "get", elements[2].Name)
}

func TestParseFileFallsBackOnBrokenSyntax(t *testing.T) {
	// missing closing brace plus garbage, structured scan cannot balance it
	src := `public class Broken {
    public int ok() {
        return 1;
    }
    public void bad( {
`
	elements, err := ParseFile("Broken.java", src)
	require.NoError(t, err)
	found := false
	for _, el := range elements {
		if el.Name == "Broken" {
			found = true
		}
	}
	assert.True(t, found, "fallback should still find the class declaration")
}

func TestFallbackToleratesInlineAnnotation(t *testing.T) {
	// broken braces force the pattern fallback
	src := `public class Broken {
    @Override public void ping() {
        return;
    }
    public void bad( {
`
	elements, err := ParseFile("Broken.java", src)
	require.NoError(t, err)
	ping := findElement(t, elements, "ping")
	assert.Equal(t, models.ElementMethod, ping.Kind)
}

func TestParseFileFindsMethodWithWrappedParameterList(t *testing.T) {
	src := `public class Wide {
    public String join(
            String first,
            String second,
            int limit) {
        return first + second + limit;
    }
}
`
	elements, err := ParseFile("Wide.java", src)
	require.NoError(t, err)

	join := findElement(t, elements, "join")
	assert.Equal(t, models.ElementMethod, join.Kind)
	assert.Equal(t, 2, join.Line, "element anchors on the line the declaration starts")
	assert.Contains(t, join.Signature, "join(")
	assert.False(t, join.HasJavadoc)

	// continuation lines must not register as declarations of their own
	require.Len(t, elements, 2)
}

func TestParseFileFindsMethodWithInlineAnnotation(t *testing.T) {
	src := `public class Tagged {
    @Override public void refresh() {
    }

    @SuppressWarnings("unchecked") public void cast() {
    }
}
`
	elements, err := ParseFile("Tagged.java", src)
	require.NoError(t, err)
	require.Len(t, elements, 3)
	assert.Equal(t, "refresh", findElement(t, elements, "refresh").Name)
	assert.Equal(t, "cast", findElement(t, elements, "cast").Name)
}

func TestParseFileIgnoresBareCallsInBodies(t *testing.T) {
	src := `public class Caller {
    public void act() {
        log("starting");
        flush(
            true,
            false);
    }
}
`
	elements, err := ParseFile("Caller.java", src)
	require.NoError(t, err)
	require.Len(t, elements, 2) // class + act, never the calls
}

func TestParseFileErrorsWhenBothStrategiesFail(t *testing.T) {
	_, err := ParseFile("garbage.java", "}}} not java at all {{{")
	require.Error(t, err)
}

func TestParseFileIgnoresDeclarationsInStringsAndComments(t *testing.T) {
	src := `public class Quoted {
    // public void commentedOut() {}
    private String snippet = "class Fake { }";

    /*
    public void blockCommented() {
    }
    */

    public void real() {
    }
}
`
	elements, err := ParseFile("Quoted.java", src)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "Quoted", elements[0].Name)
	assert.Equal(t, "real", elements[1].Name)
}

func TestElementsNeedingDocumentationSkipsDocumented(t *testing.T) {
	elements := []models.JavaElement{
		{Name: "a", HasJavadoc: false},
		{Name: "b", HasJavadoc: true},
	}

	need := ElementsNeedingDocumentation(elements, false)
	require.Len(t, need, 1)
	assert.Equal(t, "a", need[0].Name)

	all := ElementsNeedingDocumentation(elements, true)
	assert.Len(t, all, 2)
}

func TestHasJavadocBeforeWithPlainBlockComment(t *testing.T) {
	src := `public class C {
    /* not a javadoc */
    public void m() {
    }
}
`
	elements, err := ParseFile("C.java", src)
	require.NoError(t, err)
	m := findElement(t, elements, "m")
	assert.False(t, m.HasJavadoc)
}
