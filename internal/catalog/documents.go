package catalog

// productFragment is the field selection every product-shaped response uses.
const productFragment = `
fragment productFragment on Product {
  id
  title
  description
  handle
  images(first: 10) {
    nodes {
      url
      width
      height
      altText
    }
  }
  options {
    id
    name
    values
  }
  variants(first: 10) {
    nodes {
      id
      title
      availableForSale
      quantityAvailable
      price {
        amount
        currencyCode
      }
      compareAtPrice {
        amount
        currencyCode
      }
      selectedOptions {
        name
        value
      }
    }
  }
  featuredImage {
    url
    width
    height
    altText
  }
}
`

// cartFragment is the field selection every cart-shaped response uses.
const cartFragment = `
fragment cartFragment on Cart {
  id
  totalQuantity
  checkoutUrl
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    nodes {
      id
      quantity
      merchandise {
        ... on ProductVariant {
          id
          title
          image {
            url
            altText
            width
            height
          }
          product {
            handle
            title
          }
        }
      }
      cost {
        amountPerQuantity {
          amount
          currencyCode
        }
        subtotalAmount {
          amount
          currencyCode
        }
        totalAmount {
          amount
          currencyCode
        }
      }
    }
  }
}
`

const listProductsDocument = `
query ListProducts($first: Int!, $query: String, $sortKey: ProductSortKeys, $reverse: Boolean) {
  products(first: $first, query: $query, sortKey: $sortKey, reverse: $reverse) {
    edges {
      node {
        ...productFragment
      }
    }
  }
}
` + productFragment

const productByHandleDocument = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) {
    ...productFragment
  }
}
` + productFragment

const productRecommendationsDocument = `
query ProductRecommendations($productId: ID!) {
  productRecommendations(productId: $productId) {
    ...productFragment
  }
}
` + productFragment

const getCartDocument = `
query GetCart($id: ID!) {
  cart(id: $id) {
    ...cartFragment
  }
}
` + cartFragment

const createCartDocument = `
mutation CreateCart($id: ID!, $quantity: Int!) {
  cartCreate(input: { lines: [{ merchandiseId: $id, quantity: $quantity }] }) {
    cart {
      ...cartFragment
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const addCartLinesDocument = `
mutation AddCartLines($cartId: ID!, $merchandiseId: ID!, $quantity: Int) {
  cartLinesAdd(cartId: $cartId, lines: [{ merchandiseId: $merchandiseId, quantity: $quantity }]) {
    cart {
      ...cartFragment
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const removeCartLinesDocument = `
mutation RemoveCartLines($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...cartFragment
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const updateCartLinesDocument = `
mutation UpdateCartLines($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...cartFragment
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment
