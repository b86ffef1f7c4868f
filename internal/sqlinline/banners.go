package sqlinline

const QInsertBanner = `--sql 25e45ff5-f9f4-4ddf-9cc4-4874587a811d
insert into banners (
    id, user_id, image_id, item_name, item_concept, item_category,
    ad_text, serve_text, ad_text2, serve_text2, add_information,
    created_at, updated_at
)
values (
    gen_random_uuid(), $1::uuid, $2::uuid, $3::text, $4::text, $5::text,
    '', '', '', '', $6::text,
    now(), now()
)
returning id, version;
`

const QSelectBannerByID = `--sql c5e6790e-ac7d-4fc7-a036-9d7453b9cd75
select id, user_id, image_id, item_name, item_concept, item_category,
       ad_text, serve_text, ad_text2, serve_text2, add_information,
       version, created_at, updated_at
from banners
where id = $1::uuid
  and is_deleted = false
limit 1;
`

const QUpdateBannerCopy = `--sql a4f603eb-5536-4e6b-81a2-728b6322b1e1
update banners
set ad_text = $2::text,
    serve_text = $3::text,
    ad_text2 = $4::text,
    serve_text2 = $5::text,
    version = version + 1,
    updated_at = now()
where id = $1::uuid
  and version = $6::int
  and is_deleted = false;
`

const QUpdateBannerInputs = `--sql eb504bf3-83b2-47a7-a21c-f4e8e1a8e4a8
update banners
set item_name = $2::text,
    item_concept = $3::text,
    item_category = $4::text,
    add_information = $5::text,
    version = version + 1,
    updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning version;
`

const QSoftDeleteBanner = `--sql d184253d-9646-42e1-abdb-66f3dbd6e8ff
update banners
set is_deleted = true, updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning id;
`
