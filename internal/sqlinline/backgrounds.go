package sqlinline

const QInsertBackground = `--sql bfa9a918-e22f-4307-a2d3-b1954f113314
insert into backgrounds (
    id, user_id, image_id, gen_type, concept_option,
    output_w, output_h, multiblob_sod, bg_color_hex_code,
    image_url, created_at, updated_at
)
values (
    gen_random_uuid(), $1::uuid, $2::uuid, $3::text, $4::jsonb,
    $5::int, $6::int, $7::boolean, $8::text,
    '', now(), now()
)
returning id, version;
`

const QSelectBackgroundByID = `--sql 368352de-4f80-4083-9bc0-6067256ce743
select id, user_id, image_id, gen_type, concept_option,
       output_w, output_h, multiblob_sod, bg_color_hex_code,
       image_url, recreated, version, created_at, updated_at
from backgrounds
where id = $1::uuid
  and is_deleted = false
limit 1;
`

const QUpdateBackgroundResult = `--sql 76b0d179-4c67-4fb4-a6ac-e83763a106f9
update backgrounds
set image_url = $2::text,
    recreated = $3::boolean,
    version = version + 1,
    updated_at = now()
where id = $1::uuid
  and version = $4::int
  and is_deleted = false;
`

const QUpdateBackgroundConcept = `--sql 338c86aa-07cf-4930-854b-a6475a6e3779
update backgrounds
set concept_option = $2::jsonb,
    version = version + 1,
    updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning version;
`

const QSoftDeleteBackground = `--sql a7224c44-ce97-41f9-b100-dbcbe0c4d689
update backgrounds
set is_deleted = true, updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning image_url;
`
